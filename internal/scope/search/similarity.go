package search

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Similarity returns 1 - levenshtein(a, b) / max(len(a), len(b)) over runes.
// Two empty strings are identical.
func Similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1.0
	}
	return 1 - float64(edlib.LevenshteinDistance(a, b))/float64(longest)
}
