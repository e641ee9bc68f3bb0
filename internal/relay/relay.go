// Package relay talks to the language model that grades essays.
package relay

import (
	"context"
	"errors"
)

// ErrNoAPIKey is returned when a hosted client is built without credentials
var ErrNoAPIKey = errors.New("relay: API key is required")

// Client sends a prompt to a model and returns its text reply
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Static replies with a fixed response. Useful for tests and offline runs.
type Static struct {
	Response string
	Err      error

	// Prompts records every prompt received
	Prompts []string
}

// NewStatic creates a client that always answers with response
func NewStatic(response string) *Static {
	return &Static{Response: response}
}

// Name returns the client name
func (s *Static) Name() string {
	return "static"
}

// Complete records the prompt and returns the canned reply
func (s *Static) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.Prompts = append(s.Prompts, prompt)
	if s.Err != nil {
		return "", s.Err
	}
	return s.Response, nil
}
