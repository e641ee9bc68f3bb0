package search

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(DefaultOptions())
	require.NoError(t, err)
	return r
}

func TestResolveScenarios(t *testing.T) {
	r := newTestResolver(t)
	doc := NewDocument(essayFixture)

	tests := []struct {
		name    string
		quote   string
		method  Method
		span    Span
		matched string
		score   float64
	}{
		{
			name:    "exact sentence",
			quote:   "This essay demonstrates the importance of citations.",
			method:  MethodExact,
			span:    Span{16, 68},
			matched: "This essay demonstrates the importance of citations.",
			score:   1.0,
		},
		{
			name:    "extra internal whitespace",
			quote:   "(Smith,   2019)",
			method:  MethodNormalized,
			span:    Span{126, 139},
			matched: "(Smith, 2019)",
			score:   1.0,
		},
		{
			name:    "missing comma",
			quote:   "(Smith 2019)",
			method:  MethodFuzzy,
			span:    Span{126, 139},
			matched: "(Smith, 2019)",
			score:   12.0 / 13.0,
		},
		{
			name:    "case variation",
			quote:   "research shows that proper citation improves credibility",
			method:  MethodFuzzy,
			span:    Span{69, 125},
			matched: "Research shows that proper citation improves credibility",
			score:   55.0 / 56.0,
		},
		{
			name:   "unrelated paraphrase",
			quote:  "the essay talks about reliability of sources",
			method: MethodNone,
			span:   NoSpan,
		},
		{
			name:   "empty quote",
			quote:  "",
			method: MethodNone,
			span:   NoSpan,
		},
		{
			name:   "longer than the essay",
			quote:  strings.Repeat(essayFixture, 3),
			method: MethodNone,
			span:   NoSpan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Resolve(doc, Fragment{CriterionRef: "THESIS", Text: tt.quote})
			require.NoError(t, err)

			assert.Equal(t, "THESIS", res.CriterionRef)
			assert.Equal(t, tt.method, res.Method)
			assert.Equal(t, tt.span, res.Span())
			assert.Equal(t, tt.matched, res.MatchedText)
			assert.InDelta(t, tt.score, res.Score, 1e-9)
			assert.Equal(t, tt.method != MethodNone, res.Resolved())
		})
	}
}

func TestResolveEveryExactSubstring(t *testing.T) {
	r := newTestResolver(t)
	text := "Good essays have clear structure. Good essays cite sources."
	doc := NewDocument(text)
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		for j := i + 1; j <= len(runes); j++ {
			sub := string(runes[i:j])
			res, err := r.Resolve(doc, Fragment{Text: sub})
			require.NoError(t, err)
			require.Equal(t, MethodExact, res.Method, sub)
			require.Equal(t, 1.0, res.Score)
			require.Equal(t, sub, string(runes[res.Start:res.End]))
		}
	}
}

func TestResolveLeftmostAcrossCriteria(t *testing.T) {
	r := newTestResolver(t)
	doc := NewDocument("Good essays cite sources. Good essays cite sources.")

	results, err := r.ResolveBatch(doc, []Fragment{
		{CriterionRef: "EVIDENCE", Text: "Good essays cite sources."},
		{CriterionRef: "STYLE", Text: "Good essays cite sources."},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, res := range results {
		assert.Equal(t, 0, res.Start, "duplicate quotes both take the leftmost occurrence")
		assert.Equal(t, 25, res.End)
	}
}

// the proper citation sentence, then the same text with every 5th rune (13 of 67)
// or two in every 5 (26 of 67) replaced by a rune absent from the document
const (
	boundaryText  = "Proper citation of sources improves the credibility of an argument."
	boundaryClose = "Prop#r ci#atio# of #ourc#s im#rove# the#cred#bili#y of#an a#gume#t."
	boundaryFar   = "Pro##r c##ati## of##our##s i##rov## th##cre##bil##y o##an ##gum##t."
)

func TestResolveFuzzyBoundary(t *testing.T) {
	r := newTestResolver(t)
	doc := NewDocument("Intro paragraph here.\n\n" + boundaryText + "\n\nClosing words follow.")

	res, err := r.Resolve(doc, Fragment{Text: boundaryClose})
	require.NoError(t, err)
	assert.Equal(t, MethodFuzzy, res.Method)
	assert.Equal(t, boundaryText, res.MatchedText)
	assert.Equal(t, Span{23, 90}, res.Span())
	assert.InDelta(t, 1-13.0/67.0, res.Score, 1e-9)

	res, err = r.Resolve(doc, Fragment{Text: boundaryFar})
	require.NoError(t, err)
	assert.Equal(t, MethodNone, res.Method)
	assert.Equal(t, NoSpan, res.Span())
	assert.Empty(t, res.MatchedText)
}

func TestResolveThresholdIsConfigurable(t *testing.T) {
	opts := DefaultOptions()
	opts.Threshold = 0.6
	r, err := NewResolver(opts)
	require.NoError(t, err)

	doc := NewDocument("Intro paragraph here.\n\n" + boundaryText + "\n\nClosing words follow.")
	res, err := r.Resolve(doc, Fragment{Text: boundaryFar})
	require.NoError(t, err)
	assert.Equal(t, MethodFuzzy, res.Method)
	assert.InDelta(t, 1-26.0/67.0, res.Score, 1e-9)
}

func TestResolveBatchPreservesOrder(t *testing.T) {
	opts := DefaultOptions()
	opts.Workers = 8
	r, err := NewResolver(opts)
	require.NoError(t, err)

	var b strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&b, "Sentence number %03d talks about topic %03d.\n", i, i*7%200)
	}
	doc := NewDocument(b.String())

	frags := make([]Fragment, 200)
	for i := range frags {
		// mix tiers so workers finish out of order
		switch i % 3 {
		case 0:
			frags[i] = Fragment{CriterionRef: fmt.Sprintf("C%d", i), Text: fmt.Sprintf("Sentence number %03d", i)}
		case 1:
			frags[i] = Fragment{CriterionRef: fmt.Sprintf("C%d", i), Text: fmt.Sprintf("Sentence  number\n%03d", i)}
		default:
			frags[i] = Fragment{CriterionRef: fmt.Sprintf("C%d", i), Text: "zzzz qqqq unrelated"}
		}
	}

	results, err := r.ResolveBatch(doc, frags)
	require.NoError(t, err)
	require.Len(t, results, len(frags))

	for i, res := range results {
		assert.Equal(t, frags[i].CriterionRef, res.CriterionRef)
		switch i % 3 {
		case 0:
			assert.Equal(t, MethodExact, res.Method)
			assert.Equal(t, fmt.Sprintf("Sentence number %03d", i), res.MatchedText)
		case 1:
			assert.Equal(t, MethodNormalized, res.Method)
			assert.Equal(t, fmt.Sprintf("Sentence number %03d", i), res.MatchedText)
		default:
			assert.Equal(t, MethodNone, res.Method)
		}
	}
}

func TestResolveBatchEmpty(t *testing.T) {
	r := newTestResolver(t)

	results, err := r.ResolveBatch(NewDocument(essayFixture), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestResolveRequiresDocument(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.Resolve(nil, Fragment{Text: "x"})
	assert.True(t, errors.Is(err, ErrNoDocument))

	_, err = r.ResolveBatch(nil, []Fragment{{Text: "x"}})
	assert.True(t, errors.Is(err, ErrNoDocument))
}

func TestResolveEmptyDocument(t *testing.T) {
	r := newTestResolver(t)

	res, err := r.Resolve(NewDocument(""), Fragment{CriterionRef: "X", Text: "anything"})
	require.NoError(t, err)
	assert.Equal(t, MethodNone, res.Method)
	assert.Equal(t, NoSpan, res.Span())
}

func TestNewResolverValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"threshold above one", func(o *Options) { o.Threshold = 1.5 }},
		{"negative threshold", func(o *Options) { o.Threshold = -0.1 }},
		{"negative tolerance", func(o *Options) { o.Tolerance = -1 }},
		{"zero step", func(o *Options) { o.Step = 0 }},
		{"negative workers", func(o *Options) { o.Workers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			_, err := NewResolver(opts)
			assert.True(t, errors.Is(err, ErrInvalidOptions), "got %v", err)
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 0.75, opts.Threshold)
	assert.Equal(t, 0.5, opts.Tolerance)
	assert.Equal(t, 1, opts.Step)
	assert.NoError(t, opts.Validate())
}
