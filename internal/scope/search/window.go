package search

import "math"

// float slack for window bounds, so 10*1.3 rounds up to 13 and not 14
const boundEpsilon = 1e-9

// window is one scored candidate of the fuzzy scan
type window struct {
	start  int
	length int
	dist   int
	denom  int
}

func (w window) score() float64 {
	return 1 - float64(w.dist)/float64(w.denom)
}

// better orders candidates by score, then leftmost start, then length closest
// to the fragment, then the shorter one. Scores are compared as exact fractions.
func (w window) better(than window, fragLen int) bool {
	if than.denom == 0 {
		return true
	}
	if a, b := w.dist*than.denom, than.dist*w.denom; a != b {
		return a < b
	}
	if w.start != than.start {
		return w.start < than.start
	}
	if dw, dt := abs(w.length-fragLen), abs(than.length-fragLen); dw != dt {
		return dw < dt
	}
	return w.length < than.length
}

// windowBounds returns the candidate window lengths for a fragment of fragLen runes
func windowBounds(fragLen int, tolerance float64) (int, int) {
	if tolerance < 0 {
		tolerance = 0
	}
	lo := int(math.Floor(float64(fragLen)*(1-tolerance) + boundEpsilon))
	hi := int(math.Ceil(float64(fragLen)*(1+tolerance) - boundEpsilon))
	return max(lo, 1), hi
}

// BestWindow slides windows of every length within tolerance of the normalized
// fragment across the normalized document and returns the most similar one,
// mapped back to original offsets.
//
// All lengths for one start position come out of a single edit-distance table
// whose rows are fragment runes and whose columns extend the window one rune at
// a time, so the last row holds the distance of every window length.
func BestWindow(doc *Document, fragment string, tolerance float64, step int) (Span, float64, bool) {
	frag := []rune(Normalize(fragment).Text)
	text := doc.normRunes
	fragLen := len(frag)
	if fragLen == 0 {
		return NoSpan, 0, false
	}
	if step < 1 {
		step = 1
	}

	minLen, maxLen := windowBounds(fragLen, tolerance)
	if len(text) < minLen {
		return NoSpan, 0, false
	}
	maxLen = min(maxLen, len(text))

	var best window
	col := make([]int, fragLen+1)
	for start := 0; start+minLen <= len(text); start += step {
		for i := range col {
			col[i] = i
		}
		limit := min(maxLen, len(text)-start)
		for k := 1; k <= limit; k++ {
			r := text[start+k-1]
			diag := col[0]
			col[0] = k
			for i := 1; i <= fragLen; i++ {
				left := col[i]
				cost := 1
				if frag[i-1] == r {
					cost = 0
				}
				col[i] = min(left+1, col[i-1]+1, diag+cost)
				diag = left
			}
			if k < minLen {
				continue
			}
			cand := window{start: start, length: k, dist: col[fragLen], denom: max(k, fragLen)}
			if cand.better(best, fragLen) {
				best = cand
			}
		}
		// Nothing to the right can beat a perfect leftmost hit
		if best.denom > 0 && best.dist == 0 {
			break
		}
	}

	if best.denom == 0 {
		return NoSpan, 0, false
	}
	return doc.view.Span(best.start, best.start+best.length), best.score(), true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
