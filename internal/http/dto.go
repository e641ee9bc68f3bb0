// Package httpapi provides HTTP handlers and data transfer objects for the grading API.
package httpapi

import (
	"github.com/dsjohal14/gradelight/internal/scope/db"
	"github.com/dsjohal14/gradelight/internal/scope/search"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string    `json:"status"`
	Counts db.Counts `json:"counts"`
}

// EssayRequest is the JSON form of an essay upload
type EssayRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// RubricRequest is the JSON form of a rubric upload
type RubricRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// EssayListResponse lists stored essays
type EssayListResponse struct {
	Essays []db.Essay `json:"essays"`
	Count  int        `json:"count"`
}

// GradeRequest asks for an essay to be graded against a rubric
type GradeRequest struct {
	EssayID  string `json:"essay_id"`
	RubricID string `json:"rubric_id"`
}

// ResolveRequest locates quotes in a text without involving the model.
// Text is required; an empty string is a valid (empty) document.
type ResolveRequest struct {
	Text      *string           `json:"text"`
	Fragments []search.Fragment `json:"fragments"`
	Threshold *float64          `json:"threshold,omitempty"` // Default: 0.75
	Tolerance *float64          `json:"tolerance,omitempty"` // Default: 0.5
}

// ResolveResponse holds one result per fragment, in request order
type ResolveResponse struct {
	Results    []search.MatchResult `json:"results"`
	Count      int                  `json:"count"`
	Unresolved int                  `json:"unresolved"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
