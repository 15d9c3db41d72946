package rule

import (
	"errors"
	"fmt"
	"github.com/viant/wfcloud/model"
	"github.com/viant/wfcloud/model/tree"
	"strings"
)

// Dataset allocation strategies
const (
	StrategySequence = "sequence"
	StrategyToolID   = "toolId"
)

// Rule represents a rewrite rule
type Rule struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Match is a plugin identifier substring
	Match  string       `json:"match" yaml:"match"`
	Plugin string       `json:"plugin" yaml:"plugin"`
	Engine model.Engine `json:"engine" yaml:"engine"`
	// RequireFile controls nodes without Configuration.File: when true
	// (default) the conversion fails, otherwise file placeholders are empty.
	RequireFile *bool `json:"requireFile,omitempty" yaml:"requireFile,omitempty"`
	// Extensions renames file extensions, e.g. .xlsx: .csv
	Extensions map[string]string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	// Annotation is an optional DefaultAnnotationText expression
	Annotation *Expression `json:"-" yaml:"-"`
	Builder    Builder     `json:"-" yaml:"-"`
}

// Matches returns true if plugin contains the rule pattern
func (r *Rule) Matches(plugin string) bool {
	return r.Match != "" && strings.Contains(plugin, r.Match)
}

// FileRequired returns file policy
func (r *Rule) FileRequired() bool {
	return r.RequireFile == nil || *r.RequireFile
}

// RenameFile applies extension mapping (case-insensitive) to a file name
func (r *Rule) RenameFile(name string) string {
	if len(r.Extensions) == 0 {
		return name
	}
	stem, ext := model.SplitFileName(name)
	for from, to := range r.Extensions {
		if strings.EqualFold(from, ext) {
			return stem + to
		}
	}
	return name
}

// ID returns rule name or match pattern
func (r *Rule) ID() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Match
}

// Validate checks rule completeness
func (r *Rule) Validate() error {
	var issues []error
	if r.Match == "" {
		issues = append(issues, fmt.Errorf("match was empty"))
	}
	if r.Plugin == "" {
		issues = append(issues, fmt.Errorf("plugin was empty"))
	}
	if r.Engine.Dll == "" {
		issues = append(issues, fmt.Errorf("engine.dll was empty"))
	}
	if r.Engine.EntryPoint == "" {
		issues = append(issues, fmt.Errorf("engine.entryPoint was empty"))
	}
	if r.Builder == nil {
		issues = append(issues, fmt.Errorf("configuration builder was nil"))
	}
	seen := map[string]string{}
	for from := range r.Extensions {
		key := strings.ToLower(from)
		if prev, ok := seen[key]; ok {
			issues = append(issues, fmt.Errorf("extensions %v and %v differ only in case", prev, from))
			continue
		}
		seen[key] = from
	}
	if len(issues) > 0 {
		return fmt.Errorf("rule %v: %w", r.ID(), errors.Join(issues...))
	}
	return nil
}

// Dataset represents a known cloud dataset
type Dataset struct {
	Name string `json:"name" yaml:"name"`
	ID   string `json:"id" yaml:"id"`
	URI  string `json:"uri,omitempty" yaml:"uri,omitempty"`
}

// Datasets represents dataset id allocation settings
type Datasets struct {
	Base     int64      `json:"base,omitempty" yaml:"base,omitempty"`
	Step     int64      `json:"step,omitempty" yaml:"step,omitempty"`
	Strategy string     `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Catalog  []*Dataset `json:"catalog,omitempty" yaml:"catalog,omitempty"`
}

// Set represents an ordered rule set with document level patches
type Set struct {
	Name      string            `json:"name,omitempty" yaml:"name,omitempty"`
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
	Datasets  *Datasets         `json:"datasets,omitempty" yaml:"datasets,omitempty"`
	Rules     []*Rule           `json:"rules,omitempty" yaml:"rules,omitempty"`
	// Properties are set on content.Properties of every converted document
	Properties *tree.Object `json:"properties,omitempty" yaml:"-"`
}

// Match returns the first rule matching plugin, or nil
func (s *Set) Match(plugin string) *Rule {
	if plugin == "" {
		return nil
	}
	for _, candidate := range s.Rules {
		if candidate.Matches(plugin) {
			return candidate
		}
	}
	return nil
}

// Validate checks rules and dataset settings
func (s *Set) Validate() error {
	var issues []error
	for _, candidate := range s.Rules {
		if err := candidate.Validate(); err != nil {
			issues = append(issues, err)
		}
	}
	if d := s.Datasets; d != nil {
		switch d.Strategy {
		case "", StrategySequence, StrategyToolID:
		default:
			issues = append(issues, fmt.Errorf("unsupported dataset strategy: %v", d.Strategy))
		}
		if d.Step < 0 {
			issues = append(issues, fmt.Errorf("dataset step must be >= 0"))
		}
		for i, dataset := range d.Catalog {
			if dataset == nil || dataset.Name == "" || dataset.ID == "" {
				issues = append(issues, fmt.Errorf("dataset catalog[%d]: name and id are required", i))
			}
		}
	}
	return errors.Join(issues...)
}
