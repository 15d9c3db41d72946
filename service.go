package wfcloud

import (
	"context"
	"errors"
	"fmt"
	"github.com/viant/afs"
	"github.com/viant/wfcloud/internal/idgen"
	"github.com/viant/wfcloud/model"
	"github.com/viant/wfcloud/model/rule"
	"github.com/viant/wfcloud/progress"
	"github.com/viant/wfcloud/service/dao"
	"github.com/viant/wfcloud/service/dao/document"
	"github.com/viant/wfcloud/service/dao/ruleset"
	"github.com/viant/wfcloud/service/diff"
	"github.com/viant/wfcloud/service/migrator"
	"github.com/viant/wfcloud/tracing"
	"go.uber.org/zap"
	"strings"
)

// Result represents a single document conversion outcome
type Result struct {
	InputURL  string           `json:"inputURL"`
	OutputURL string           `json:"outputURL,omitempty"`
	Report    *migrator.Report `json:"report,omitempty"`
	// Diff holds a unified diff for dry runs
	Diff    string     `json:"diff,omitempty"`
	Stats   diff.Stats `json:"stats"`
	Written bool       `json:"written"`
	Err     error      `json:"-"`
}

type Service struct {
	config          *Config
	logger          *zap.Logger
	fs              afs.Service
	documents       *document.Service
	rules           *ruleset.Service
	migrator        *migrator.Service
	migratorOptions []migrator.Option
	onProgress      func(p progress.Counters)
}

// Config returns service config
func (s *Service) Config() *Config {
	return s.config
}

// LoadRules loads the configured rule set, or the built-in one
func (s *Service) LoadRules(ctx context.Context) (*rule.Set, error) {
	if s.config.Rules == "" {
		return s.rules.Default(ctx)
	}
	return s.rules.Load(ctx, s.config.Rules)
}

// Convert converts the document at inputURL and writes it to outputURL, an
// empty outputURL is derived from inputURL with the configured suffix.
func (s *Service) Convert(ctx context.Context, set *rule.Set, inputURL, outputURL string) (result *Result, err error) {
	if outputURL == "" {
		outputURL = OutputURL(inputURL, s.config.Suffix)
	}
	result = &Result{InputURL: inputURL, OutputURL: outputURL}
	ctx, span := tracing.StartSpan(ctx, "wfcloud.convert")
	span.WithAttributes(map[string]string{"input": inputURL, "output": outputURL})
	defer func() {
		if result.Report != nil {
			span.WithInt("nodes", result.Report.Nodes).WithInt("converted", result.Report.Converted())
		}
		tracing.EndSpan(span, err)
		result.Err = err
	}()

	if inputURL == "" {
		return result, dao.ErrInvalidURL
	}
	if outputURL == inputURL {
		return result, fmt.Errorf("output %s would overwrite input", outputURL)
	}
	source, err := s.documents.Load(ctx, inputURL)
	if err != nil {
		return result, err
	}
	if !s.config.DryRun && !s.config.Overwrite {
		exists, err := s.documents.Exists(ctx, outputURL)
		if err != nil {
			return result, err
		}
		if exists {
			return result, fmt.Errorf("output %s: %w", outputURL, dao.ErrAlreadyExists)
		}
	}
	converted, report, err := s.migrator.Convert(source, set)
	if err != nil {
		return result, fmt.Errorf("failed to convert %s: %w", inputURL, err)
	}
	result.Report = report
	s.logChanges(inputURL, report)

	if s.config.DryRun {
		before, err := s.documents.Encode(source)
		if err != nil {
			return result, err
		}
		after, err := s.documents.Encode(converted)
		if err != nil {
			return result, err
		}
		if result.Diff, result.Stats, err = diff.Generate(before, after, inputURL, s.config.DiffContext); err != nil {
			return result, err
		}
		s.logger.Info("dry run", zap.String("input", inputURL), zap.Stringer("stats", result.Stats))
		return result, nil
	}
	if err = s.documents.Save(ctx, outputURL, converted); err != nil {
		return result, err
	}
	result.Written = true
	s.logger.Info("converted",
		zap.String("input", inputURL),
		zap.String("output", outputURL),
		zap.Int("nodes", report.Nodes),
		zap.Int("converted", report.Converted()))
	return result, nil
}

// ConvertAll converts every input independently, failures do not stop the
// batch; the returned error joins all conversion errors.
func (s *Service) ConvertAll(ctx context.Context, set *rule.Set, inputURLs ...string) ([]*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "wfcloud.convertAll")
	ctx, tracker := progress.WithNewTracker(ctx, idgen.New(), s.onProgress)
	progress.UpdateCtx(ctx, progress.Delta{Total: len(inputURLs)})

	var results []*Result
	var issues []error
	for _, inputURL := range inputURLs {
		if err := ctx.Err(); err != nil {
			issues = append(issues, err)
			break
		}
		result, err := s.Convert(ctx, set, inputURL, "")
		results = append(results, result)
		if err != nil {
			s.logger.Error("conversion failed", zap.String("input", inputURL), zap.Error(err))
			issues = append(issues, err)
			progress.UpdateCtx(ctx, progress.Delta{Failed: 1})
			continue
		}
		progress.UpdateCtx(ctx, progress.Delta{Converted: 1, Nodes: result.Report.Nodes, Changed: result.Report.Converted()})
	}
	snapshot := tracker.Snapshot()
	span.WithInt("documents", snapshot.TotalDocuments).WithInt("failed", snapshot.FailedDocuments)
	err := errors.Join(issues...)
	tracing.EndSpan(span, err)
	return results, err
}

func (s *Service) logChanges(inputURL string, report *migrator.Report) {
	if !s.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	for _, change := range report.Changes {
		s.logger.Debug("node converted",
			zap.String("input", inputURL),
			zap.Int("toolId", change.ToolID),
			zap.String("rule", change.Rule),
			zap.String("from", change.FromPlugin),
			zap.String("to", change.ToPlugin),
			zap.String("file", change.FileName),
			zap.String("datasetId", change.DatasetID))
	}
}

// OutputURL inserts suffix before the extension of the last path segment,
// or appends it when the name has no extension.
func OutputURL(inputURL, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	index := strings.LastIndexAny(inputURL, `/\`)
	parent, name := inputURL[:index+1], inputURL[index+1:]
	stem, ext := model.SplitFileName(name)
	return parent + stem + suffix + ext
}

// New creates a migrator facade
func New(opts ...Option) (*Service, error) {
	ret := &Service{
		config: DefaultConfig(),
		logger: zap.NewNop(),
		fs:     afs.New(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if err := ret.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	ret.documents = document.New(document.WithFS(ret.fs), document.WithIndent(ret.config.Indent))
	ret.rules = ruleset.New(ruleset.WithFS(ret.fs))
	migratorOptions := []migrator.Option{
		migrator.WithAnnotate(ret.config.Annotate),
		migrator.WithDatasetBase(ret.config.DatasetBase),
	}
	ret.migrator = migrator.New(append(migratorOptions, ret.migratorOptions...)...)
	ret.logger.Debug("service created", zap.String("suffix", ret.config.Suffix), zap.Bool("dryRun", ret.config.DryRun), zap.Int64("datasetBase", ret.config.DatasetBase))
	return ret, nil
}
