package inscriptions

import (
	"errors"
	"strings"

	"cozetik-backend/internal/shared/leadstatus"
)

var (
	ErrNotFound          = errors.New("inscription not found")
	ErrFormationNotFound = errors.New("formation not found")
	ErrInvalidStatus     = leadstatus.ErrInvalid
	ErrInvalidTransition = leadstatus.ErrTransition
)

// Issue describes one rejected field.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected field of a submission.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Field+": "+is.Message)
	}
	return "invalid inscription: " + strings.Join(parts, "; ")
}
