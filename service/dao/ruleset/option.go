package ruleset

import (
	"embed"
	"github.com/viant/afs"
)

type Option func(*Service)

// WithFS sets storage service
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithEmbedFS sets embedded file system used for embed:// URLs
func WithEmbedFS(fs *embed.FS) Option {
	return func(s *Service) {
		s.embedFS = fs
	}
}
