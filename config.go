package wfcloud

import (
	"context"
	"errors"
	"fmt"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// DefaultSuffix is inserted before the output file extension
const DefaultSuffix = "_cloud"

// Config is a serialisable representation of the migrator settings. Values
// loaded from a file are overridden by command line flags.
type Config struct {
	// Rules is a rule set URL, the embedded default set is used when empty
	Rules       string `json:"rules,omitempty" yaml:"rules,omitempty"`
	Suffix      string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Indent      string `json:"indent,omitempty" yaml:"indent,omitempty"`
	Annotate    bool   `json:"annotate,omitempty" yaml:"annotate,omitempty"`
	DatasetBase int64  `json:"datasetBase,omitempty" yaml:"datasetBase,omitempty"`
	DryRun      bool   `json:"dryRun,omitempty" yaml:"dryRun,omitempty"`
	Overwrite   bool   `json:"overwrite,omitempty" yaml:"overwrite,omitempty"`
	// DiffContext is the number of unified diff context lines for dry runs
	DiffContext int `json:"diffContext,omitempty" yaml:"diffContext,omitempty"`
	// TraceFile enables OpenTelemetry stdout tracing into the file
	TraceFile string `json:"traceFile,omitempty" yaml:"traceFile,omitempty"`
}

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() *Config {
	return &Config{
		Suffix:      DefaultSuffix,
		Indent:      "  ",
		DiffContext: 3,
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var issues []error
	if c.Suffix == "" {
		issues = append(issues, fmt.Errorf("suffix was empty"))
	}
	if c.DiffContext < 0 {
		issues = append(issues, fmt.Errorf("diffContext must be >= 0"))
	}
	if c.DatasetBase < 0 {
		issues = append(issues, fmt.Errorf("datasetBase must be >= 0"))
	}
	for _, r := range c.Indent {
		if r != ' ' && r != '\t' {
			issues = append(issues, fmt.Errorf("indent should consist of spaces or tabs"))
			break
		}
	}
	return errors.Join(issues...)
}

// LoadConfig reads a YAML config, unset fields keep their defaults
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return ret, nil
}
