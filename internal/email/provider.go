package email

import (
	"context"
	"fmt"

	"cozetik-backend/internal/shared/config"
)

// NewFromConfig selects the sender for cfg.EmailProvider.
func NewFromConfig(ctx context.Context, cfg config.Config) (Sender, error) {
	switch cfg.EmailProvider {
	case "resend":
		return NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom), nil
	case "ses":
		return NewSESSender(ctx, cfg.AWSRegion, cfg.EmailFrom)
	case "log", "":
		return LogSender{}, nil
	default:
		return nil, fmt.Errorf("unsupported EMAIL_PROVIDER %q", cfg.EmailProvider)
	}
}
