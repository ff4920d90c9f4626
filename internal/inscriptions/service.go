package inscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cozetik-backend/internal/email"
	"cozetik-backend/internal/shared/leadstatus"
	"cozetik-backend/internal/shared/metrics"
	"cozetik-backend/internal/shared/telemetry"
)

// Service handles formation inscriptions and their review.
type Service struct {
	Repo       Repo
	Formations FormationLookup
	Mailer     email.Sender
	// AdminEmail receives new inscription notices. Empty skips the notice.
	AdminEmail string
	Now        func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Submit validates in, checks the formation exists, stores the inscription
// and sends best-effort emails.
func (s *Service) Submit(ctx context.Context, in Input) (Inscription, error) {
	if err := Validate(&in); err != nil {
		metrics.IncSubmission("inscription", "invalid")
		return Inscription{}, err
	}

	now := s.now()
	formation, err := s.Formations.Formation(ctx, in.FormationID, now)
	if err != nil {
		outcome := "storage_failed"
		if errors.Is(err, ErrFormationNotFound) {
			outcome = "unknown_formation"
		}
		metrics.IncSubmission("inscription", outcome)
		return Inscription{}, err
	}

	ins := Inscription{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Message:     in.Message,
		FormationID: formation.ID,
		Status:      leadstatus.New,
		CreatedAt:   now,
		Formation:   formation.FormationRef,
	}
	if err := s.Repo.Create(ctx, ins); err != nil {
		metrics.IncSubmission("inscription", "storage_failed")
		return Inscription{}, err
	}
	telemetry.Info("inscription.persisted", map[string]any{
		"request_id":     telemetry.RequestID(ctx),
		"inscription_id": ins.ID,
		"formation_id":   formation.ID,
	})

	s.notify(ctx, ins, formation)
	metrics.IncSubmission("inscription", "created")
	return ins, nil
}

func (s *Service) notify(ctx context.Context, ins Inscription, f Formation) {
	data := email.InscriptionData{
		Name:           ins.Name,
		Email:          ins.Email,
		Phone:          ins.Phone,
		Message:        ins.Message,
		FormationTitle: f.Title,
		SessionDate:    sessionDate(f.NextSession),
	}
	if msg, err := email.InscriptionConfirmation(ins.Email, data); err == nil {
		s.send(ctx, "inscription_confirmation", ins.ID, msg)
	} else {
		telemetry.Error("inscription.email_render_failed", map[string]any{"template": "inscription_confirmation", "error": err})
	}

	if s.AdminEmail == "" {
		telemetry.Warn("inscription.admin_email_missing", map[string]any{"inscription_id": ins.ID})
		return
	}
	if msg, err := email.InscriptionAdminNotification(s.AdminEmail, data); err == nil {
		s.send(ctx, "inscription_admin", ins.ID, msg)
	} else {
		telemetry.Error("inscription.email_render_failed", map[string]any{"template": "inscription_admin", "error": err})
	}
}

func (s *Service) send(ctx context.Context, template, id string, msg email.Message) {
	res := s.Mailer.Send(ctx, msg)
	metrics.IncEmail(template, res.Success)
	if !res.Success {
		telemetry.Warn("inscription.email_failed", map[string]any{
			"request_id":     telemetry.RequestID(ctx),
			"inscription_id": id,
			"template":       template,
			"error":          res.Err,
		})
	}
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// sessionDate renders a session start as "12 janvier 2027", or "À définir".
func sessionDate(t *time.Time) string {
	if t == nil {
		return "À définir"
	}
	return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
}

func (s *Service) List(ctx context.Context) ([]Inscription, error) {
	return s.Repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Inscription, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Inscription{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// UpdateStatus applies a review transition and returns the previous status.
func (s *Service) UpdateStatus(ctx context.Context, id, raw string) (Inscription, leadstatus.Status, error) {
	next, err := leadstatus.Parse(raw)
	if err != nil {
		return Inscription{}, "", ErrInvalidStatus
	}
	in, err := s.Get(ctx, id)
	if err != nil {
		return Inscription{}, "", err
	}
	prev := in.Status
	if !leadstatus.CanTransition(prev, next) {
		return Inscription{}, prev, ErrInvalidTransition
	}
	if prev != next {
		if err := s.Repo.UpdateStatus(ctx, id, prev, next); err != nil {
			return Inscription{}, prev, err
		}
	}
	in.Status = next
	return in, prev, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	return s.Repo.Delete(ctx, id)
}
