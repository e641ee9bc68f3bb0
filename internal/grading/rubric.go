// Package grading turns an essay and a rubric into scored criteria with
// highlights located in the essay text.
package grading

import (
	"errors"
	"strings"
	"unicode"
)

// ErrEmptyRubric is returned when a rubric has no criterion lines
var ErrEmptyRubric = errors.New("grading: rubric has no criteria")

// Criterion is one rubric line, e.g. "THESIS: Clear and arguable thesis"
type Criterion struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// ParseRubric extracts criteria from lines shaped "ID: description" where ID is
// upper case. Other lines are ignored. Order follows first appearance; a repeated
// ID keeps its first position and its last description.
func ParseRubric(text string) ([]Criterion, error) {
	var criteria []Criterion
	seen := make(map[string]int)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		id, desc, ok := strings.Cut(line, ":")
		if !ok || !isUpper(id) {
			continue
		}
		id = strings.TrimSpace(id)
		desc = strings.TrimSpace(desc)

		if i, dup := seen[id]; dup {
			criteria[i].Description = desc
			continue
		}
		seen[id] = len(criteria)
		criteria = append(criteria, Criterion{ID: id, Description: desc})
	}

	if len(criteria) == 0 {
		return nil, ErrEmptyRubric
	}
	return criteria, nil
}

// isUpper reports whether s has at least one cased letter and no lower-case ones
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
