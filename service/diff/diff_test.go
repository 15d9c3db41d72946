package diff

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	testCases := []struct {
		description string
		old         string
		new         string
		expectEmpty bool
		expectLines []string
	}{
		{
			description: "identical",
			old:         "a\nb\n",
			new:         "a\nb\n",
			expectEmpty: true,
		},
		{
			description: "replaced line",
			old:         "{\n  \"@Plugin\": \"DbFileInput\"\n}\n",
			new:         "{\n  \"@Plugin\": \"UniversalInput\"\n}\n",
			expectLines: []string{"-  \"@Plugin\": \"DbFileInput\"", "+  \"@Plugin\": \"UniversalInput\""},
		},
		{
			description: "added line",
			old:         "a\nc\n",
			new:         "a\nb\nc\n",
			expectLines: []string{"+b"},
		},
	}
	for _, testCase := range testCases {
		patch, stats, err := Generate([]byte(testCase.old), []byte(testCase.new), "flow.json", 0)
		require.NoError(t, err, testCase.description)
		if testCase.expectEmpty {
			assert.Equal(t, "", patch, testCase.description)
			assert.True(t, stats.Empty(), testCase.description)
			continue
		}
		assert.True(t, strings.HasPrefix(patch, "--- flow.json (original)"), testCase.description)
		for _, line := range testCase.expectLines {
			assert.Contains(t, patch, line+"\n", testCase.description)
		}
		assert.False(t, stats.Empty(), testCase.description)
	}
}

func TestGenerate_Context(t *testing.T) {
	old := []byte("a\nb\nc\nd\ne\n")
	updated := []byte("a\nb\nC\nd\ne\n")
	testCases := []struct {
		description  string
		context      int
		expectHunk   string
		expectAbsent []string
	}{
		{description: "zero context", context: 0, expectHunk: "@@ -3 +3 @@\n-c\n+C\n", expectAbsent: []string{" b\n", " d\n"}},
		{description: "one line", context: 1, expectHunk: "@@ -2,3 +2,3 @@\n b\n-c\n+C\n d\n", expectAbsent: []string{" a\n", " e\n"}},
		{description: "negative uses default", context: -1, expectHunk: "@@ -1,5 +1,5 @@\n a\n b\n-c\n+C\n d\n e\n"},
	}
	for _, testCase := range testCases {
		patch, stats, err := Generate(old, updated, "flow.json", testCase.context)
		require.NoError(t, err, testCase.description)
		assert.Contains(t, patch, testCase.expectHunk, testCase.description)
		for _, line := range testCase.expectAbsent {
			assert.NotContains(t, patch, line, testCase.description)
		}
		assert.Equal(t, 1, stats.Deleted+stats.Changed, testCase.description)
	}
}

func TestStat(t *testing.T) {
	patch, _, err := Generate([]byte("a\nb\nc\n"), []byte("a\nB\nc\nd\n"), "x", 1)
	require.NoError(t, err)
	stats, err := Stat(patch)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Deleted+stats.Changed)
	assert.Equal(t, 2, stats.Added+stats.Changed)

	stats, err = Stat("")
	require.NoError(t, err)
	assert.True(t, stats.Empty())
}
