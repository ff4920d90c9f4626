package email

import (
	"context"
	"errors"
	"strings"
)

// DefaultFrom is used when EMAIL_FROM is not configured.
const DefaultFrom = "onboarding@resend.dev"

// DefaultAdminEmail receives admin notifications when ADMIN_EMAIL is not set.
const DefaultAdminEmail = "nicoleoproject@gmail.com"

// ErrNotConfigured is reported by senders without a provider.
var ErrNotConfigured = errors.New("email provider is not configured")

// Message is one HTML email to one recipient.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Result reports the outcome of a send. Senders never panic and never
// return a Go error; callers decide whether a failure matters.
type Result struct {
	Success bool
	ID      string
	Err     error
}

// Sender delivers messages through a provider.
type Sender interface {
	Send(ctx context.Context, msg Message) Result
}

func failed(err error) Result { return Result{Success: false, Err: err} }

func validate(msg Message) error {
	switch {
	case strings.TrimSpace(msg.To) == "":
		return errors.New("email recipient is required")
	case strings.TrimSpace(msg.Subject) == "":
		return errors.New("email subject is required")
	}
	return nil
}
