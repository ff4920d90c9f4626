package email

import (
	"context"

	"cozetik-backend/internal/shared/telemetry"
)

// LogSender records messages without delivering them. It always reports
// ErrNotConfigured so callers see the same outcome as a missing API key.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) Result {
	telemetry.Warn("email.not_configured", map[string]any{
		"subject": msg.Subject,
	})
	return failed(ErrNotConfigured)
}
