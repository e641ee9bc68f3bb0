package grading

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dsjohal14/gradelight/internal/scope/search"
)

// ErrBadResponse is returned when the model reply holds no decodable report
var ErrBadResponse = errors.New("grading: unparseable model response")

// noteNotFound marks highlights that could not be located in the essay
const noteNotFound = "text not found in essay"

// Highlight is a quote the model gave for a criterion, with its resolved position
type Highlight struct {
	Text        string        `json:"text"`
	MatchedText string        `json:"matched_text,omitempty"`
	Start       int           `json:"start"`
	End         int           `json:"end"`
	Method      search.Method `json:"method,omitempty"`
	MatchScore  float64       `json:"match_score"`
	Note        string        `json:"note,omitempty"`
}

// CriterionResult is the model's verdict on one criterion
type CriterionResult struct {
	Criterion  string      `json:"criterion"`
	Score      float64     `json:"score"`
	Feedback   string      `json:"feedback"`
	Highlights []Highlight `json:"highlights"`
}

// Report is a full grading of one essay
type Report struct {
	CriteriaResults []CriterionResult `json:"criteria_results"`
	TotalScore      float64           `json:"total_score"`
	OverallFeedback string            `json:"overall_feedback"`
}

// ParseResponse decodes the JSON object embedded in a model reply. Anything
// before the first '{' or after the last '}' is ignored.
func ParseResponse(reply string) (*Report, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object found", ErrBadResponse)
	}

	var report Report
	if err := json.Unmarshal([]byte(reply[start:end+1]), &report); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	return &report, nil
}

// TotalScore is the mean criterion score, 0 when there are no criteria
func TotalScore(r *Report) float64 {
	if r == nil || len(r.CriteriaResults) == 0 {
		return 0
	}
	sum := 0.0
	for _, cr := range r.CriteriaResults {
		sum += cr.Score
	}
	return sum / float64(len(r.CriteriaResults))
}

// Fragments flattens every highlight into resolver input, criterion by criterion
func (r *Report) Fragments() []search.Fragment {
	var frags []search.Fragment
	for _, cr := range r.CriteriaResults {
		for _, h := range cr.Highlights {
			frags = append(frags, search.Fragment{CriterionRef: cr.Criterion, Text: h.Text})
		}
	}
	return frags
}

// Attach writes resolved positions back onto the highlights, in Fragments order
func (r *Report) Attach(results []search.MatchResult) error {
	if want := len(r.Fragments()); want != len(results) {
		return fmt.Errorf("grading: %d results for %d highlights", len(results), want)
	}

	n := 0
	for i := range r.CriteriaResults {
		highlights := r.CriteriaResults[i].Highlights
		for j := range highlights {
			res := results[n]
			n++

			highlights[j].MatchedText = res.MatchedText
			highlights[j].Start = res.Start
			highlights[j].End = res.End
			highlights[j].Method = res.Method
			highlights[j].MatchScore = res.Score
			highlights[j].Note = ""
			if !res.Resolved() {
				highlights[j].Note = noteNotFound
			}
		}
	}
	return nil
}
