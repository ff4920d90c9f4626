package candidatures

import (
	"errors"

	"cozetik-backend/internal/shared/leadstatus"
)

var (
	ErrNotFound          = errors.New("candidature not found")
	ErrDuplicate         = errors.New("candidature already exists")
	ErrInvalidStatus     = leadstatus.ErrInvalid
	ErrInvalidTransition = leadstatus.ErrTransition
	ErrNoDocument        = errors.New("document not provided")
	ErrEmailFailed       = errors.New("email delivery failed")
)

// Kind classifies validation failures.
type Kind string

const (
	KindMissingField       Kind = "missing_field"
	KindInvalidCivility    Kind = "invalid_civility"
	KindInvalidEmail       Kind = "invalid_email"
	KindInvalidPhone       Kind = "invalid_phone"
	KindInvalidBirthDate   Kind = "invalid_birth_date"
	KindMotivationTooShort Kind = "motivation_too_short"
	KindPrivacyNotAccepted Kind = "privacy_not_accepted"
	KindResumeRequired     Kind = "resume_required"
)

// Error is a validation failure. Message is shown to the applicant.
type Error struct {
	Kind    Kind
	Fields  []string
	Message string
}

func (e *Error) Error() string { return e.Message }
