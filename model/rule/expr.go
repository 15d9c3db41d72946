package rule

import (
	"fmt"
	"github.com/viant/parsly"
	"os"
	"strings"
)

const envPrefix = "env."

// Segment represents either literal text or a placeholder name
type Segment struct {
	Text string
	Name string
}

// Expression represents parsed text with ${name} placeholders
type Expression struct {
	Source   string
	Segments []*Segment
}

// Lookup resolves placeholder names
type Lookup func(name string) (string, bool)

// ParseExpression parses text with ${name} placeholders
func ParseExpression(text string) (*Expression, error) {
	ret := &Expression{Source: text}
	cursor := parsly.NewCursor("", []byte(text), 0)
	for cursor.HasMore() {
		matched := cursor.MatchAny(placeholderStartToken, literalToken)
		switch matched.Code {
		case literalCode:
			ret.Segments = append(ret.Segments, &Segment{Text: matched.Text(cursor)})
		case placeholderStartCode:
			matched = cursor.MatchOne(nameToken)
			if matched.Code != nameCode {
				return nil, fmt.Errorf("invalid placeholder in %q: %w", text, cursor.NewError(nameToken))
			}
			name := matched.Text(cursor)
			matched = cursor.MatchOne(placeholderEndToken)
			if matched.Code != placeholderEndCode {
				return nil, fmt.Errorf("unterminated placeholder ${%v in %q: %w", name, text, cursor.NewError(placeholderEndToken))
			}
			ret.Segments = append(ret.Segments, &Segment{Name: name})
		default:
			return nil, cursor.NewError(placeholderStartToken, literalToken)
		}
	}
	return ret, nil
}

// IsLiteral returns true if expression has no placeholders
func (e *Expression) IsLiteral() bool {
	for _, segment := range e.Segments {
		if segment.Name != "" {
			return false
		}
	}
	return true
}

// Names returns placeholder names
func (e *Expression) Names() []string {
	var ret []string
	for _, segment := range e.Segments {
		if segment.Name != "" {
			ret = append(ret, segment.Name)
		}
	}
	return ret
}

// Expand replaces placeholders with values returned by lookups, the first
// lookup defining a name wins; env.NAME falls back to the process environment.
func (e *Expression) Expand(lookups ...Lookup) (string, error) {
	if e.IsLiteral() {
		return e.Source, nil
	}
	var builder strings.Builder
	for _, segment := range e.Segments {
		if segment.Name == "" {
			builder.WriteString(segment.Text)
			continue
		}
		value, ok := resolve(segment.Name, lookups)
		if !ok {
			return "", fmt.Errorf("undefined placeholder ${%v} in %q", segment.Name, e.Source)
		}
		builder.WriteString(value)
	}
	return builder.String(), nil
}

func resolve(name string, lookups []Lookup) (string, bool) {
	for _, lookup := range lookups {
		if lookup == nil {
			continue
		}
		if value, ok := lookup(name); ok {
			return value, true
		}
	}
	if strings.HasPrefix(name, envPrefix) {
		return os.Getenv(name[len(envPrefix):]), true
	}
	return "", false
}

// MapLookup returns lookup backed by a map
func MapLookup(values map[string]string) Lookup {
	return func(name string) (string, bool) {
		value, ok := values[name]
		return value, ok
	}
}
