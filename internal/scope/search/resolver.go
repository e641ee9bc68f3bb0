// Package search locates quoted fragments inside an essay and reports their
// character offsets, falling back from exact to whitespace-normalized to fuzzy matching.
package search

import (
	"errors"
	"fmt"

	"github.com/dsjohal14/gradelight/internal/libs/accel"
	"golang.org/x/sync/errgroup"
)

// Default tuning for the fuzzy tier
const (
	DefaultThreshold = 0.75
	DefaultTolerance = 0.5
	DefaultStep      = 1
)

var (
	// ErrNoDocument is returned when a fragment is resolved without a document
	ErrNoDocument = errors.New("search: no document")
	// ErrInvalidOptions is returned by NewResolver for out-of-range options
	ErrInvalidOptions = errors.New("search: invalid options")
)

// Method records which tier located a fragment
type Method string

// Resolution methods, in the order they are tried
const (
	MethodExact      Method = "exact"
	MethodNormalized Method = "normalized"
	MethodFuzzy      Method = "fuzzy"
	MethodNone       Method = "none"
)

// Document is an immutable essay with its normalized view computed once
type Document struct {
	text      string
	runes     []rune
	view      View
	normRunes []rune
}

// NewDocument prepares text for resolving any number of fragments against it
func NewDocument(text string) *Document {
	runes := []rune(text)
	view := normalizeRunes(runes)
	return &Document{
		text:      text,
		runes:     runes,
		view:      view,
		normRunes: []rune(view.Text),
	}
}

// Text returns the original document text
func (d *Document) Text() string {
	return d.text
}

// Len returns the document length in runes
func (d *Document) Len() int {
	return len(d.runes)
}

// View returns the normalized view of the document
func (d *Document) View() View {
	return d.view
}

// Slice returns the original text covered by span, or "" for an invalid span
func (d *Document) Slice(s Span) string {
	if !s.Valid() || s.End > len(d.runes) {
		return ""
	}
	return string(d.runes[s.Start:s.End])
}

// Fragment is a quote attributed to a rubric criterion
type Fragment struct {
	CriterionRef string `json:"criterion_ref"`
	Text         string `json:"text"`
}

// MatchResult is the outcome of resolving one fragment.
// Unresolved fragments have Method none and Start = End = -1.
type MatchResult struct {
	CriterionRef string  `json:"criterion_ref"`
	MatchedText  string  `json:"matched_text"`
	Start        int     `json:"start"`
	End          int     `json:"end"`
	Method       Method  `json:"method"`
	Score        float64 `json:"score"`
}

// Resolved reports whether the fragment was located
func (r MatchResult) Resolved() bool {
	return r.Method != MethodNone && r.Start >= 0
}

// Span returns the located range
func (r MatchResult) Span() Span {
	return Span{Start: r.Start, End: r.End}
}

// Options tunes the resolver
type Options struct {
	// Threshold is the minimum fuzzy similarity accepted, in [0, 1]
	Threshold float64
	// Tolerance bounds fuzzy window lengths to L*(1-Tolerance)..L*(1+Tolerance)
	Tolerance float64
	// Step is the stride between fuzzy window starts
	Step int
	// Workers caps ResolveBatch parallelism, 0 means one per CPU
	Workers int
}

// DefaultOptions returns the documented defaults
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		Tolerance: DefaultTolerance,
		Step:      DefaultStep,
	}
}

// Validate checks option ranges
func (o Options) Validate() error {
	if o.Threshold < 0 || o.Threshold > 1 {
		return fmt.Errorf("%w: threshold %v outside [0, 1]", ErrInvalidOptions, o.Threshold)
	}
	if o.Tolerance < 0 {
		return fmt.Errorf("%w: negative tolerance %v", ErrInvalidOptions, o.Tolerance)
	}
	if o.Step < 1 {
		return fmt.Errorf("%w: step %d must be at least 1", ErrInvalidOptions, o.Step)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: negative workers %d", ErrInvalidOptions, o.Workers)
	}
	return nil
}

// Resolver maps fragments to document offsets. It holds no per-call state and
// is safe for concurrent use.
type Resolver struct {
	opts    Options
	workers int
}

// NewResolver creates a resolver with the given options
func NewResolver(opts Options) (*Resolver, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{
		opts:    opts,
		workers: accel.Workers(opts.Workers),
	}, nil
}

// Options returns the resolver configuration
func (r *Resolver) Options() Options {
	return r.opts
}

// Resolve locates a single fragment
func (r *Resolver) Resolve(doc *Document, frag Fragment) (MatchResult, error) {
	if doc == nil {
		return MatchResult{}, ErrNoDocument
	}
	return r.resolve(doc, frag), nil
}

// ResolveBatch locates every fragment in parallel. Result i always belongs to
// fragment i.
func (r *Resolver) ResolveBatch(doc *Document, frags []Fragment) ([]MatchResult, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}

	results := make([]MatchResult, len(frags))
	var g errgroup.Group
	g.SetLimit(accel.Clamp(r.workers, len(frags)))
	for i := range frags {
		i := i
		g.Go(func() error {
			results[i] = r.resolve(doc, frags[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// resolve tries exact, normalized and fuzzy matching once each, in that order
func (r *Resolver) resolve(doc *Document, frag Fragment) MatchResult {
	if span, ok := FindExact(doc.text, frag.Text); ok {
		return r.result(doc, frag, span, MethodExact, 1.0)
	}
	if span, ok := FindNormalized(doc, frag.Text); ok {
		return r.result(doc, frag, span, MethodNormalized, 1.0)
	}
	if span, score, ok := BestWindow(doc, frag.Text, r.opts.Tolerance, r.opts.Step); ok && score >= r.opts.Threshold {
		return r.result(doc, frag, span, MethodFuzzy, score)
	}

	return MatchResult{
		CriterionRef: frag.CriterionRef,
		Start:        NoSpan.Start,
		End:          NoSpan.End,
		Method:       MethodNone,
	}
}

func (r *Resolver) result(doc *Document, frag Fragment, span Span, method Method, score float64) MatchResult {
	return MatchResult{
		CriterionRef: frag.CriterionRef,
		MatchedText:  doc.Slice(span),
		Start:        span.Start,
		End:          span.End,
		Method:       method,
		Score:        score,
	}
}
