package document

import "github.com/viant/afs"

type Option func(*Service)

// WithFS sets storage service
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithIndent sets document indent, empty value produces compact output
func WithIndent(indent string) Option {
	return func(s *Service) {
		s.indent = indent
	}
}
