package search

import (
	"strings"
	"unicode"
)

// View is a whitespace-normalized rendering of a string plus the map back to it.
// Starts[i] is the rune index in the original string of the first rune collapsed
// into normalized rune i, Ends[i] is one past the last one. Both are non-decreasing.
type View struct {
	Text   string
	Starts []int
	Ends   []int
}

// Normalize collapses every run of whitespace to a single space and trims both ends.
// Case and punctuation are left alone.
func Normalize(s string) View {
	return normalizeRunes([]rune(s))
}

func normalizeRunes(src []rune) View {
	var b strings.Builder
	b.Grow(len(src))
	starts := make([]int, 0, len(src))
	ends := make([]int, 0, len(src))

	for i := 0; i < len(src); {
		if !unicode.IsSpace(src[i]) {
			b.WriteRune(src[i])
			starts = append(starts, i)
			ends = append(ends, i+1)
			i++
			continue
		}

		j := i
		for j < len(src) && unicode.IsSpace(src[j]) {
			j++
		}
		// Leading and trailing runs are dropped, inner runs become one space
		if len(starts) > 0 && j < len(src) {
			b.WriteByte(' ')
			starts = append(starts, i)
			ends = append(ends, j)
		}
		i = j
	}

	return View{Text: b.String(), Starts: starts, Ends: ends}
}

// Len returns the number of runes in the normalized text
func (v View) Len() int {
	return len(v.Starts)
}

// Span maps the normalized rune range [start, end) back to original rune offsets.
func (v View) Span(start, end int) Span {
	if start < 0 || end > len(v.Starts) || start >= end {
		return NoSpan
	}
	return Span{Start: v.Starts[start], End: v.Ends[end-1]}
}
