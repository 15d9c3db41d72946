package rule

import (
	"fmt"
	"github.com/viant/wfcloud/model/tree"
	"strings"
)

// Builder rebuilds a node configuration
type Builder interface {
	Build(input *Input) (*tree.Object, error)
}

// BuilderFunc adapts a function to Builder
type BuilderFunc func(input *Input) (*tree.Object, error)

// Build calls f(input)
func (f BuilderFunc) Build(input *Input) (*tree.Object, error) {
	return f(input)
}

// Template builds configurations from an ordered template; string values may
// carry ${name} placeholders, any other value is emitted as is.
type Template struct {
	value       *tree.Object
	variables   map[string]string
	expressions map[string]*Expression
}

// NewTemplate compiles template placeholders; every placeholder has to be a
// builtin, a variable or an env.NAME reference.
func NewTemplate(value *tree.Object, variables map[string]string) (*Template, error) {
	if value == nil {
		return nil, fmt.Errorf("template was nil")
	}
	ret := &Template{value: value, variables: variables, expressions: map[string]*Expression{}}
	if err := ret.compile("", value); err != nil {
		return nil, err
	}
	return ret, nil
}

// Build returns a new configuration for input
func (t *Template) Build(input *Input) (*tree.Object, error) {
	value, err := t.expand(t.value, input)
	if err != nil {
		return nil, err
	}
	return value.(*tree.Object), nil
}

func (t *Template) compile(path string, value interface{}) error {
	switch actual := value.(type) {
	case string:
		if _, ok := t.expressions[actual]; ok {
			return nil
		}
		expr, err := ParseExpression(actual)
		if err != nil {
			return fmt.Errorf("%v: %w", path, err)
		}
		if err = CheckNames(expr, t.variables); err != nil {
			return fmt.Errorf("%v: %w", path, err)
		}
		t.expressions[actual] = expr
	case *tree.Object:
		for _, key := range actual.Keys() {
			item, _ := actual.Get(key)
			if err := t.compile(joinPath(path, key), item); err != nil {
				return err
			}
		}
	case []interface{}:
		for i, item := range actual {
			if err := t.compile(fmt.Sprintf("%v[%d]", path, i), item); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Template) expand(value interface{}, input *Input) (interface{}, error) {
	switch actual := value.(type) {
	case string:
		return t.expressions[actual].Expand(input.Lookup, MapLookup(t.variables))
	case *tree.Object:
		ret := tree.NewObject()
		for _, key := range actual.Keys() {
			item, _ := actual.Get(key)
			expanded, err := t.expand(item, input)
			if err != nil {
				return nil, err
			}
			ret.Set(key, expanded)
		}
		return ret, nil
	case []interface{}:
		ret := make([]interface{}, len(actual))
		for i, item := range actual {
			expanded, err := t.expand(item, input)
			if err != nil {
				return nil, err
			}
			ret[i] = expanded
		}
		return ret, nil
	}
	return value, nil
}

// CheckNames verifies that every placeholder of expr can be resolved
func CheckNames(expr *Expression, variables map[string]string) error {
	for _, name := range expr.Names() {
		if IsBuiltin(name) || strings.HasPrefix(name, envPrefix) {
			continue
		}
		if _, ok := variables[name]; ok {
			continue
		}
		return fmt.Errorf("unknown placeholder ${%v}", name)
	}
	return nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
