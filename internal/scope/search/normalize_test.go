package search

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		starts   []int
		ends     []int
	}{
		{"empty", "", "", []int{}, []int{}},
		{"only whitespace", " \n\t ", "", []int{}, []int{}},
		{"already normal", "a b", "a b", []int{0, 1, 2}, []int{1, 2, 3}},
		{"collapse and trim", "  a \n\t b  c  ", "a b c", []int{2, 3, 7, 8, 10}, []int{3, 7, 8, 10, 11}},
		{"keeps case and punctuation", "Hello,\n\nWorld!", "Hello, World!",
			[]int{0, 1, 2, 3, 4, 5, 6, 8, 9, 10, 11, 12, 13},
			[]int{1, 2, 3, 4, 5, 6, 8, 9, 10, 11, 12, 13, 14}},
		{"multibyte runes", "é ü", "é ü", []int{0, 1, 2}, []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Normalize(tt.input)
			assert.Equal(t, tt.expected, v.Text)
			assert.Equal(t, tt.starts, v.Starts)
			assert.Equal(t, tt.ends, v.Ends)
		})
	}
}

var normalizeCorpus = []string{
	"",
	"   ",
	"word",
	"A Simple Essay\n\nThis essay demonstrates the importance of citations.",
	"\t\tleading tabs and trailing newlines\n\n",
	"mixed \r\n line\vendings\fhere",
	"ünïcödé  wörds with em space",
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, s := range normalizeCorpus {
		once := Normalize(s)
		twice := Normalize(once.Text)

		assert.Equal(t, once.Text, twice.Text, "input %q", s)
		for i := range twice.Starts {
			assert.Equal(t, i, twice.Starts[i], "identity start map for %q", s)
			assert.Equal(t, i+1, twice.Ends[i], "identity end map for %q", s)
		}
	}
}

func TestNormalizeOffsetMap(t *testing.T) {
	for _, s := range normalizeCorpus {
		src := []rune(s)
		v := Normalize(s)
		norm := []rune(v.Text)
		require.Len(t, v.Starts, len(norm))
		require.Len(t, v.Ends, len(norm))

		for i := range norm {
			assert.Less(t, v.Starts[i], v.Ends[i], "non-empty original span at %d in %q", i, s)
			if i > 0 {
				assert.LessOrEqual(t, v.Starts[i-1], v.Starts[i], "starts non-decreasing in %q", s)
				assert.LessOrEqual(t, v.Ends[i-1], v.Ends[i], "ends non-decreasing in %q", s)
			}

			original := src[v.Starts[i]:v.Ends[i]]
			if norm[i] == ' ' {
				for _, r := range original {
					assert.True(t, unicode.IsSpace(r), "collapsed run of %q holds only whitespace", s)
				}
			} else {
				assert.Equal(t, []rune{norm[i]}, original)
			}
		}
	}
}

func TestViewSpan(t *testing.T) {
	v := Normalize("a  \n b")

	assert.Equal(t, Span{Start: 0, End: 6}, v.Span(0, 3))
	assert.Equal(t, Span{Start: 1, End: 5}, v.Span(1, 2))
	assert.Equal(t, NoSpan, v.Span(2, 2))
	assert.Equal(t, NoSpan, v.Span(0, 4))
}
