package contacts

import (
	"context"
	"time"

	"github.com/google/uuid"

	"cozetik-backend/internal/email"
	"cozetik-backend/internal/shared/leadstatus"
	"cozetik-backend/internal/shared/metrics"
	"cozetik-backend/internal/shared/telemetry"
)

// Service handles contact form submissions and their review.
type Service struct {
	Repo       Repo
	Mailer     email.Sender
	AdminEmail string
	Now        func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Submit validates, stores and acknowledges a contact request. Email
// failures are logged only.
func (s *Service) Submit(ctx context.Context, in Input) (ContactRequest, error) {
	if err := Validate(&in); err != nil {
		metrics.IncSubmission("contact", "invalid")
		return ContactRequest{}, err
	}

	c := ContactRequest{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
		Status:    leadstatus.New,
		CreatedAt: s.now(),
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		metrics.IncSubmission("contact", "storage_failed")
		return ContactRequest{}, err
	}
	telemetry.Info("contact.persisted", map[string]any{
		"request_id": telemetry.RequestID(ctx),
		"contact_id": c.ID,
	})

	data := email.ContactData{Name: c.Name, Email: c.Email, Message: c.Message}
	if msg, err := email.ContactConfirmation(c.Email, data); err == nil {
		s.send(ctx, "contact_confirmation", c.ID, msg)
	}
	adminEmail := s.AdminEmail
	if adminEmail == "" {
		adminEmail = email.DefaultAdminEmail
	}
	if msg, err := email.ContactAdminNotification(adminEmail, data); err == nil {
		s.send(ctx, "contact_admin", c.ID, msg)
	}

	metrics.IncSubmission("contact", "created")
	return c, nil
}

func (s *Service) send(ctx context.Context, template, id string, msg email.Message) {
	res := s.Mailer.Send(ctx, msg)
	metrics.IncEmail(template, res.Success)
	if !res.Success {
		telemetry.Warn("contact.email_failed", map[string]any{
			"request_id": telemetry.RequestID(ctx),
			"contact_id": id,
			"template":   template,
			"error":      res.Err,
		})
	}
}

func (s *Service) List(ctx context.Context) ([]ContactRequest, error) {
	return s.Repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (ContactRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ContactRequest{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// UpdateStatus applies a review transition and returns the previous status.
func (s *Service) UpdateStatus(ctx context.Context, id, raw string) (ContactRequest, leadstatus.Status, error) {
	next, err := leadstatus.Parse(raw)
	if err != nil {
		return ContactRequest{}, "", ErrInvalidStatus
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return ContactRequest{}, "", err
	}
	prev := c.Status
	if !leadstatus.CanTransition(prev, next) {
		return ContactRequest{}, prev, ErrInvalidTransition
	}
	if prev != next {
		if err := s.Repo.UpdateStatus(ctx, id, prev, next); err != nil {
			return ContactRequest{}, prev, err
		}
	}
	c.Status = next
	return c, prev, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	return s.Repo.Delete(ctx, id)
}
