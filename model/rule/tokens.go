package rule

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes (start at 1 to avoid clash with parsly.EOF)
const (
	literalCode = iota + 1
	placeholderStartCode
	nameCode
	placeholderEndCode
)

var (
	literalToken          = parsly.NewToken(literalCode, "Literal", &literalMatcher{})
	placeholderStartToken = parsly.NewToken(placeholderStartCode, "${", matcher.NewFragment("${"))
	nameToken             = parsly.NewToken(nameCode, "Name", &nameMatcher{})
	placeholderEndToken   = parsly.NewToken(placeholderEndCode, "}", matcher.NewByte('}'))
)

// literalMatcher matches text up to the next placeholder start
type literalMatcher struct{}

func (m *literalMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if input[i] == '$' && i+1 < cursor.InputSize && input[i+1] == '{' {
			break
		}
		matched++
	}
	return matched
}

// nameMatcher matches placeholder names, e.g. fileName or env.WFCLOUD_BUCKET
type nameMatcher struct{}

func (m *nameMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	if pos >= cursor.InputSize || !(isLetter(input[pos]) || input[pos] == '_') {
		return 0
	}
	matched := 1
	for i := pos + 1; i < cursor.InputSize; i++ {
		if isLetter(input[i]) || isDigit(input[i]) || input[i] == '_' || input[i] == '.' {
			matched++
			continue
		}
		break
	}
	return matched
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
