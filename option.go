package wfcloud

import (
	"github.com/viant/afs"
	"github.com/viant/wfcloud/progress"
	"github.com/viant/wfcloud/service/migrator"
	"go.uber.org/zap"
)

// Option configures Service
type Option func(s *Service)

// WithConfig sets the service config, nil keeps DefaultConfig
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithLogger sets the logger, a no-op logger is used by default
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithFS sets the storage service used for documents and rule sets
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithMigratorOptions lets the caller supply additional migrator options
// (e.g. a fixed clock or upload id generator).
func WithMigratorOptions(opts ...migrator.Option) Option {
	return func(s *Service) {
		s.migratorOptions = append(s.migratorOptions, opts...)
	}
}

// WithProgressListener sets a callback invoked on every ConvertAll progress change
func WithProgressListener(fn func(p progress.Counters)) Option {
	return func(s *Service) {
		s.onProgress = fn
	}
}
