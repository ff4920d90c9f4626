// Package llm abstracts the chat model used for quiz recommendations.
package llm

import (
	"context"
	"errors"
)

// Request is one JSON-mode completion.
type Request struct {
	System string
	User   string
}

// Completer returns the raw JSON document produced for a request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrNotConfigured is returned by Disabled.
var ErrNotConfigured = errors.New("llm provider not configured")

// Disabled is used when no provider is configured; callers fall back to
// their static behavior.
type Disabled struct{}

func (Disabled) Complete(ctx context.Context, req Request) (string, error) {
	return "", ErrNotConfigured
}
