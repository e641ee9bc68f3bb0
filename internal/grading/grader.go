package grading

import (
	"context"
	"fmt"

	"github.com/dsjohal14/gradelight/internal/relay"
	"github.com/dsjohal14/gradelight/internal/scope/search"
	"github.com/rs/zerolog"
)

// Grader asks the model for a report and locates its highlights in the essay
type Grader struct {
	client   relay.Client
	resolver *search.Resolver
	logger   zerolog.Logger
}

// NewGrader creates a grader
func NewGrader(client relay.Client, resolver *search.Resolver, logger zerolog.Logger) *Grader {
	return &Grader{
		client:   client,
		resolver: resolver,
		logger:   logger,
	}
}

// Grade scores essay against criteria
func (g *Grader) Grade(ctx context.Context, essay string, criteria []Criterion) (*Report, error) {
	if len(criteria) == 0 {
		return nil, ErrEmptyRubric
	}

	reply, err := g.client.Complete(ctx, BuildPrompt(essay, criteria))
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}

	report, err := ParseResponse(reply)
	if err != nil {
		return nil, err
	}

	if err := g.Resolve(essay, report); err != nil {
		return nil, err
	}
	report.TotalScore = TotalScore(report)

	g.logger.Info().
		Str("model", g.client.Name()).
		Int("criteria", len(report.CriteriaResults)).
		Float64("total_score", report.TotalScore).
		Msg("essay graded")

	return report, nil
}

// Resolve locates every highlight of report in essay
func (g *Grader) Resolve(essay string, report *Report) error {
	frags := report.Fragments()
	results, err := g.resolver.ResolveBatch(search.NewDocument(essay), frags)
	if err != nil {
		return fmt.Errorf("failed to resolve highlights: %w", err)
	}

	unresolved := 0
	for _, res := range results {
		if res.Resolved() {
			continue
		}
		unresolved++
		g.logger.Debug().Str("criterion", res.CriterionRef).Msg("highlight not found in essay")
	}

	g.logger.Debug().
		Int("highlights", len(results)).
		Int("unresolved", unresolved).
		Msg("highlights resolved")

	return report.Attach(results)
}
