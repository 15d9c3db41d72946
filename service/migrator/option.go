package migrator

import "time"

type Option func(*Service)

// WithAnnotate enables DefaultAnnotationText updates for rules defining an annotation
func WithAnnotate(flag bool) Option {
	return func(s *Service) {
		s.annotate = flag
	}
}

// WithDatasetBase overrides rule set dataset base
func WithDatasetBase(base int64) Option {
	return func(s *Service) {
		s.datasetBase = base
	}
}

// WithClock sets conversion time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator sets upload id generator
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}
