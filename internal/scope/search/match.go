package search

import (
	"strings"
	"unicode/utf8"
)

// Span is a half-open range of rune offsets into a document
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NoSpan marks a fragment that could not be located
var NoSpan = Span{Start: -1, End: -1}

// Valid reports whether the span points into a document
func (s Span) Valid() bool {
	return s.Start >= 0 && s.End >= s.Start
}

// Bytes converts the rune span to byte offsets into text.
func (s Span) Bytes(text string) (int, int) {
	if !s.Valid() {
		return -1, -1
	}
	start, end := -1, len(text)
	n := 0
	for i := range text {
		if n == s.Start {
			start = i
		}
		if n == s.End {
			end = i
			break
		}
		n++
	}
	if start < 0 {
		start = len(text)
	}
	return start, end
}

// FindExact returns the leftmost occurrence of fragment in doc, in rune offsets.
// An empty fragment never matches.
func FindExact(doc, fragment string) (Span, bool) {
	idx := indexRunes(doc, fragment)
	if idx < 0 {
		return NoSpan, false
	}
	return Span{Start: idx, End: idx + utf8.RuneCountInString(fragment)}, true
}

// FindNormalized matches the normalized fragment against the document's normalized
// view and maps the hit back to original offsets.
func FindNormalized(doc *Document, fragment string) (Span, bool) {
	frag := Normalize(fragment)
	idx := indexRunes(doc.view.Text, frag.Text)
	if idx < 0 {
		return NoSpan, false
	}
	return doc.view.Span(idx, idx+frag.Len()), true
}

// indexRunes is strings.Index reporting a rune offset, or -1
func indexRunes(s, substr string) int {
	if substr == "" {
		return -1
	}
	idx := strings.Index(s, substr)
	if idx < 0 {
		return -1
	}
	return utf8.RuneCountInString(s[:idx])
}
