// Package diff renders unified diffs between original and converted documents.
package diff

import (
	"fmt"
	"github.com/pmezard/go-difflib/difflib"
	sgdiff "github.com/sourcegraph/go-diff/diff"
)

// DefaultContext is the number of context lines used for a negative count
const DefaultContext = 3

// Stats captures unified diff line statistics
type Stats struct {
	Added   int `json:"added"`
	Changed int `json:"changed"`
	Deleted int `json:"deleted"`
}

// Empty returns true when no line changed
func (s Stats) Empty() bool {
	return s.Added == 0 && s.Changed == 0 && s.Deleted == 0
}

func (s Stats) String() string {
	return fmt.Sprintf("+%d ~%d -%d", s.Added, s.Changed, s.Deleted)
}

// Generate produces a unified diff between old and new content.
// Identical inputs produce an empty diff, zero contextLines emits changed lines only.
func Generate(oldContent, newContent []byte, filePath string, contextLines int) (string, Stats, error) {
	if contextLines < 0 {
		contextLines = DefaultContext
	}
	if string(oldContent) == string(newContent) {
		return "", Stats{}, nil
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(oldContent)),
		B:        difflib.SplitLines(string(newContent)),
		FromFile: filePath + " (original)",
		ToFile:   filePath + " (converted)",
		Context:  contextLines,
	}
	patch, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", Stats{}, err
	}
	stats, err := Stat(patch)
	if err != nil {
		return "", Stats{}, err
	}
	return patch, stats, nil
}

// Stat parses a single file unified diff and returns its statistics
func Stat(patch string) (Stats, error) {
	if patch == "" {
		return Stats{}, nil
	}
	fileDiff, err := sgdiff.ParseFileDiff([]byte(patch))
	if err != nil {
		return Stats{}, fmt.Errorf("failed to parse diff: %w", err)
	}
	stat := fileDiff.Stat()
	return Stats{Added: int(stat.Added), Changed: int(stat.Changed), Deleted: int(stat.Deleted)}, nil
}
