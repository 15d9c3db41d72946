package ruleset

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"
	"github.com/viant/afs/storage"
	"github.com/viant/wfcloud/internal/yml"
	"github.com/viant/wfcloud/model/rule"
	"github.com/viant/wfcloud/model/tree"
	"github.com/viant/wfcloud/service/dao"
	"gopkg.in/yaml.v3"
	"path"
	"strings"
)

// DefaultURL locates the built-in rule set
const DefaultURL = "embed:///default.yaml"

//go:embed default.yaml
var defaultFS embed.FS

type Service struct {
	fs      afs.Service
	embedFS *embed.FS
}

// Default loads the built-in rule set converting DbFileInput/DbFileOutput into cloud connectors
func (s *Service) Default(ctx context.Context) (*rule.Set, error) {
	data, err := s.fs.DownloadWithURL(ctx, DefaultURL, &defaultFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load default rule set: %w", err)
	}
	return s.ParseRuleSet(DefaultURL, data)
}

// DecodeYAML decodes a rule set from YAML
func (s *Service) DecodeYAML(encoded []byte) (*rule.Set, error) {
	return s.ParseRuleSet("", encoded)
}

// Load loads a rule set from YAML at the specified URL
func (s *Service) Load(ctx context.Context, URL string) (*rule.Set, error) {
	if URL == "" {
		return nil, dao.ErrInvalidURL
	}
	if path.Ext(URL) == "" {
		URL += ".yaml"
	}
	var options []storage.Option
	if s.embedFS != nil {
		options = append(options, s.embedFS)
	}
	exists, err := s.fs.Exists(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to check rule set %s: %w", URL, err)
	}
	if !exists {
		return nil, fmt.Errorf("rule set %s: %w", URL, dao.ErrNotFound)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load rule set from %s: %w", URL, err)
	}
	return s.ParseRuleSet(URL, data)
}

// ParseRuleSet parses, compiles and validates a YAML rule set
func (s *Service) ParseRuleSet(URL string, data []byte) (*rule.Set, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to decode rule set %s: %w", URL, err)
	}
	set := &rule.Set{Name: nameFromURL(URL)}
	definitions, err := parseSet((*yml.Node)(&node).Root(), set)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rule set %s: %w", URL, err)
	}
	if err = expandVariables(set.Variables); err != nil {
		return nil, fmt.Errorf("rule set %s: %w", URL, err)
	}
	for i, definition := range definitions {
		if err = definition.compile(set.Rules[i], set.Variables); err != nil {
			return nil, fmt.Errorf("rule set %s: rule %v: %w", URL, set.Rules[i].ID(), err)
		}
	}
	if err = set.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule set %s: %w", URL, err)
	}
	return set, nil
}

// definition holds rule sections compiled once variables are known
type definition struct {
	annotation    string
	configuration *tree.Object
}

func (d *definition) compile(aRule *rule.Rule, variables map[string]string) error {
	if d.configuration != nil {
		template, err := rule.NewTemplate(d.configuration, variables)
		if err != nil {
			return fmt.Errorf("configuration: %w", err)
		}
		aRule.Builder = template
	}
	if d.annotation == "" {
		return nil
	}
	expr, err := rule.ParseExpression(d.annotation)
	if err != nil {
		return fmt.Errorf("annotation: %w", err)
	}
	if err = rule.CheckNames(expr, variables); err != nil {
		return fmt.Errorf("annotation: %w", err)
	}
	aRule.Annotation = expr
	return nil
}

func parseSet(node *yml.Node, set *rule.Set) ([]*definition, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("rule set should be a mapping")
	}
	var definitions []*definition
	err := node.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "name":
			if valueNode.Kind == yaml.ScalarNode {
				set.Name = valueNode.Value
			}
		case "variables":
			if valueNode.IsZero() {
				return nil
			}
			if err := (*yaml.Node)(valueNode).Decode(&set.Variables); err != nil {
				return fmt.Errorf("failed to parse variables: %w", err)
			}
		case "datasets":
			if valueNode.IsZero() {
				return nil
			}
			set.Datasets = &rule.Datasets{}
			if err := (*yaml.Node)(valueNode).Decode(set.Datasets); err != nil {
				return fmt.Errorf("failed to parse datasets: %w", err)
			}
		case "rules":
			if valueNode.Kind != yaml.SequenceNode {
				return fmt.Errorf("rules should be a sequence")
			}
			return valueNode.Items(func(index int, ruleNode *yml.Node) error {
				aRule, aDefinition, err := parseRule(ruleNode)
				if err != nil {
					return fmt.Errorf("failed to parse rules[%d]: %w", index, err)
				}
				set.Rules = append(set.Rules, aRule)
				definitions = append(definitions, aDefinition)
				return nil
			})
		case "properties":
			properties, err := valueNode.Object()
			if err != nil {
				return fmt.Errorf("failed to parse properties: %w", err)
			}
			set.Properties = properties
		default:
			return fmt.Errorf("unsupported rule set key: %v", key)
		}
		return nil
	})
	return definitions, err
}

func parseRule(node *yml.Node) (*rule.Rule, *definition, error) {
	if node.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("rule should be a mapping")
	}
	aRule := &rule.Rule{}
	aDefinition := &definition{}
	err := node.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "name":
			aRule.Name = valueNode.Value
		case "match":
			aRule.Match = valueNode.Value
		case "plugin":
			aRule.Plugin = valueNode.Value
		case "engine":
			if err := (*yaml.Node)(valueNode).Decode(&aRule.Engine); err != nil {
				return fmt.Errorf("failed to parse engine: %w", err)
			}
		case "requirefile":
			var flag bool
			if err := (*yaml.Node)(valueNode).Decode(&flag); err != nil {
				return fmt.Errorf("requireFile should be a boolean")
			}
			aRule.RequireFile = &flag
		case "extensions":
			if err := (*yaml.Node)(valueNode).Decode(&aRule.Extensions); err != nil {
				return fmt.Errorf("failed to parse extensions: %w", err)
			}
		case "annotation":
			if valueNode.Kind != yaml.ScalarNode {
				return fmt.Errorf("annotation should be a string")
			}
			aDefinition.annotation = valueNode.Value
		case "configuration":
			configuration, err := valueNode.Object()
			if err != nil {
				return fmt.Errorf("failed to parse configuration: %w", err)
			}
			aDefinition.configuration = configuration
		default:
			return fmt.Errorf("unsupported rule key: %v", key)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return aRule, aDefinition, nil
}

// expandVariables resolves env placeholders, every variable has to end up non empty
func expandVariables(variables map[string]string) error {
	var issues []error
	for name, value := range variables {
		expr, err := rule.ParseExpression(value)
		if err != nil {
			issues = append(issues, fmt.Errorf("variable %v: %w", name, err))
			continue
		}
		expanded, err := expr.Expand()
		if err != nil {
			issues = append(issues, fmt.Errorf("variable %v: %w", name, err))
			continue
		}
		if strings.TrimSpace(expanded) == "" {
			issues = append(issues, fmt.Errorf("variable %v: was empty, source: %q", name, value))
			continue
		}
		variables[name] = expanded
	}
	return errors.Join(issues...)
}

func nameFromURL(URL string) string {
	if URL == "" {
		return ""
	}
	base := path.Base(URL)
	return strings.TrimSuffix(base, path.Ext(base))
}

// New creates a rule set service
func New(opts ...Option) *Service {
	ret := &Service{fs: afs.New()}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
