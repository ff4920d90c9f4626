package email

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"cozetik-backend/internal/shared/telemetry"
)

// ResendSender sends through the Resend API.
type ResendSender struct {
	client *resend.Client
	apiKey string
	from   string
}

// NewResendSender builds a Resend sender. from falls back to DefaultFrom.
func NewResendSender(apiKey, from string) *ResendSender {
	if strings.TrimSpace(from) == "" {
		telemetry.Warn("email.from_default", map[string]any{"from": DefaultFrom})
		from = DefaultFrom
	}
	return &ResendSender{
		client: resend.NewCustomClient(&http.Client{Timeout: 15 * time.Second}, apiKey),
		apiKey: strings.TrimSpace(apiKey),
		from:   from,
	}
}

// withBaseURL points the client at another API host.
func (s *ResendSender) withBaseURL(raw string) error {
	u, err := url.Parse(strings.TrimRight(raw, "/") + "/")
	if err != nil {
		return err
	}
	s.client.BaseURL = u
	return nil
}

// Send posts the message to Resend. Failures come back in the Result.
func (s *ResendSender) Send(ctx context.Context, msg Message) Result {
	if s.apiKey == "" {
		return failed(ErrNotConfigured)
	}
	if err := validate(msg); err != nil {
		return failed(err)
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return failed(fmt.Errorf("resend: %w", err))
	}
	return Result{Success: true, ID: sent.Id}
}
