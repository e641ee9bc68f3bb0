package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const essayFixture = "A Simple Essay\n\nThis essay demonstrates the importance of citations. " +
	"Research shows that proper citation improves credibility (Smith, 2019)."

func TestFindExact(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		fragment string
		expected Span
		found    bool
	}{
		{"sentence", essayFixture, "This essay demonstrates the importance of citations.", Span{16, 68}, true},
		{"leftmost of repeats", "ab ab ab", "ab", Span{0, 2}, true},
		{"later repeat", "xx ab ab", "ab", Span{3, 5}, true},
		{"rune offsets", "héllo wörld", "wörld", Span{6, 11}, true},
		{"absent", essayFixture, "nowhere", NoSpan, false},
		{"empty fragment", essayFixture, "", NoSpan, false},
		{"longer than document", "short", "short and more", NoSpan, false},
		{"empty document", "", "a", NoSpan, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span, ok := FindExact(tt.doc, tt.fragment)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, span)
		})
	}
}

func TestFindExactEverySubstring(t *testing.T) {
	doc := NewDocument(essayFixture)
	runes := []rune(essayFixture)

	for i := 0; i < len(runes); i++ {
		for j := i + 1; j <= len(runes); j++ {
			sub := string(runes[i:j])
			span, ok := FindExact(essayFixture, sub)
			require.True(t, ok, "substring %q", sub)
			require.Equal(t, sub, doc.Slice(span))
			require.LessOrEqual(t, span.Start, i, "leftmost occurrence of %q", sub)
		}
	}
}

func TestFindNormalized(t *testing.T) {
	doc := NewDocument(essayFixture)

	span, ok := FindNormalized(doc, "(Smith,   2019)")
	require.True(t, ok)
	assert.Equal(t, Span{126, 139}, span)
	assert.Equal(t, "(Smith, 2019)", doc.Slice(span))

	span, ok = FindNormalized(doc, "  Essay This\tessay  ")
	require.True(t, ok)
	assert.Equal(t, "Essay\n\nThis essay", doc.Slice(span))

	_, ok = FindNormalized(doc, " \n ")
	assert.False(t, ok)

	_, ok = FindNormalized(doc, "essay this")
	assert.False(t, ok, "normalization keeps case")
}

func TestFindNormalizedSpansWhitespaceRuns(t *testing.T) {
	doc := NewDocument("alpha  beta\n\tgamma delta")

	span, ok := FindNormalized(doc, "beta gamma")
	require.True(t, ok)
	assert.Equal(t, Span{7, 18}, span)
	assert.Equal(t, "beta\n\tgamma", doc.Slice(span))
}

func TestSpanBytes(t *testing.T) {
	text := "héllo wörld"
	span, ok := FindExact(text, "wörld")
	require.True(t, ok)

	start, end := span.Bytes(text)
	assert.Equal(t, "wörld", text[start:end])
	assert.Equal(t, strings.Index(text, "wörld"), start)

	start, end = NoSpan.Bytes(text)
	assert.Equal(t, -1, start)
	assert.Equal(t, -1, end)

	start, end = Span{Start: 11, End: 11}.Bytes(text)
	assert.Equal(t, len(text), start)
	assert.Equal(t, len(text), end)
}
