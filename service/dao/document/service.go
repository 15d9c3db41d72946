package document

import (
	"bytes"
	"context"
	"fmt"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/wfcloud/model"
	"github.com/viant/wfcloud/service/dao"
)

// DefaultIndent is used when saving documents
const DefaultIndent = "  "

// Service loads and saves workflow documents
type Service struct {
	fs     afs.Service
	indent string
}

// Load reads a workflow document
func (s *Service) Load(ctx context.Context, URL string) (*model.Workflow, error) {
	if URL == "" {
		return nil, dao.ErrInvalidURL
	}
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check if document exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("document %s: %w", URL, dao.ErrNotFound)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", URL, err)
	}
	workflow, err := model.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", URL, err)
	}
	workflow.Source = &model.Source{URL: URL}
	return workflow, nil
}

// Exists returns true if document exists
func (s *Service) Exists(ctx context.Context, URL string) (bool, error) {
	if URL == "" {
		return false, dao.ErrInvalidURL
	}
	return s.fs.Exists(ctx, URL)
}

// Encode serialises a workflow document with service indent
func (s *Service) Encode(workflow *model.Workflow) ([]byte, error) {
	if workflow == nil || workflow.Root == nil {
		return nil, dao.ErrNilEntity
	}
	return workflow.Encode(s.indent)
}

// Save writes a workflow document
func (s *Service) Save(ctx context.Context, URL string, workflow *model.Workflow) error {
	if URL == "" {
		return dao.ErrInvalidURL
	}
	data, err := s.Encode(workflow)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", URL, err)
	}
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save document to %s: %w", URL, err)
	}
	return nil
}

// New creates a document service
func New(opts ...Option) *Service {
	ret := &Service{fs: afs.New(), indent: DefaultIndent}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
