package candidatures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"cozetik-backend/internal/email"
	"cozetik-backend/internal/extract"
	"cozetik-backend/internal/filestore"
	"cozetik-backend/internal/shared/leadstatus"
	"cozetik-backend/internal/shared/metrics"
	"cozetik-backend/internal/shared/telemetry"
)

// FileStore is the subset of filestore.Client used by the service.
type FileStore interface {
	Upload(ctx context.Context, f filestore.File, folder string) (filestore.Upload, error)
	Delete(ctx context.Context, key string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Service contains the intake pipeline and back-office operations.
type Service struct {
	Repo                Repo
	Files               FileStore
	Mailer              email.Sender
	AdminEmail          string
	MotivationMinLength int
	// MaxFileBytes bounds résumé text extraction reads.
	MaxFileBytes int64
	Now          func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

type uploadOutcome struct {
	upload filestore.Upload
	err    error
}

// Submit validates, uploads attachments, persists and notifies. Emails are
// best-effort: once the record is stored, Submit succeeds.
func (s *Service) Submit(ctx context.Context, sub Submission) (Candidature, error) {
	reqID := telemetry.RequestID(ctx)
	log := func(state string, fields map[string]any) {
		if fields == nil {
			fields = map[string]any{}
		}
		fields["request_id"] = reqID
		fields["state"] = state
		telemetry.Info("candidature.intake", fields)
	}
	log("received", map[string]any{"formation": sub.Formation})

	birthDate, err := Validate(&sub, s.MotivationMinLength)
	if err != nil {
		metrics.IncSubmission("candidature", "invalid")
		return Candidature{}, err
	}
	log("validated", nil)

	cv, cover, other := s.uploadAll(ctx, sub)
	if cv.err != nil {
		s.discard(ctx, cover.upload.Key, other.upload.Key)
		metrics.IncSubmission("candidature", "upload_failed")
		return Candidature{}, fmt.Errorf("upload résumé: %w", cv.err)
	}
	for name, o := range map[string]uploadOutcome{"coverLetter": cover, "otherDocument": other} {
		if o.err != nil {
			telemetry.Warn("candidature.optional_upload_failed", map[string]any{
				"request_id": reqID, "document": name, "error": o.err,
			})
		}
	}
	log("uploaded", map[string]any{"cv_url": cv.upload.URL})

	c := Candidature{
		ID:                uuid.NewString(),
		Civility:          sub.Civility,
		FirstName:         sub.FirstName,
		LastName:          sub.LastName,
		BirthDate:         birthDate,
		Email:             sub.Email,
		Phone:             sub.Phone,
		Address:           sub.Address,
		PostalCode:        sub.PostalCode,
		City:              sub.City,
		CategoryFormation: sub.CategoryFormation,
		Formation:         sub.Formation,
		EducationLevel:    sub.EducationLevel,
		CurrentSituation:  sub.CurrentSituation,
		StartDate:         sub.StartDate,
		Motivation:        sub.Motivation,
		CV:                toAttachment(cv),
		CoverLetter:       toAttachment(cover),
		OtherDocument:     toAttachment(other),
		AcceptPrivacy:     sub.AcceptPrivacy,
		AcceptNewsletter:  sub.AcceptNewsletter,
		Status:            leadstatus.New,
		CreatedAt:         s.now(),
	}

	if err := s.Repo.Create(ctx, c); err != nil {
		s.discard(ctx, c.attachmentKeys()...)
		outcome := "storage_failed"
		if errors.Is(err, ErrDuplicate) {
			outcome = "duplicate"
		}
		metrics.IncSubmission("candidature", outcome)
		return Candidature{}, err
	}
	log("persisted", map[string]any{"candidature_id": c.ID})

	s.notify(ctx, c)
	log("notified", map[string]any{"candidature_id": c.ID})
	metrics.IncSubmission("candidature", "created")
	return c, nil
}

// uploadAll runs the three uploads concurrently and waits for all of them.
// Every branch records its own outcome, so one failure never cancels the others.
func (s *Service) uploadAll(ctx context.Context, sub Submission) (cv, cover, other uploadOutcome) {
	var g errgroup.Group
	run := func(f *filestore.File, folder string, out *uploadOutcome) {
		if f == nil || f.Size == 0 {
			return
		}
		g.Go(func() error {
			up, err := s.Files.Upload(ctx, *f, folder)
			*out = uploadOutcome{upload: up, err: err}
			if err == nil && !filestore.ExtensionMatches(up.URL, f.Name) {
				telemetry.Warn("candidature.url_extension_mismatch", map[string]any{
					"request_id": telemetry.RequestID(ctx), "url": up.URL, "filename": f.Name,
				})
			}
			return nil
		})
	}
	run(sub.CV, filestore.FolderResumes, &cv)
	run(sub.CoverLetter, filestore.FolderCoverLetters, &cover)
	run(sub.OtherDocument, filestore.FolderOtherDocuments, &other)
	_ = g.Wait()
	return cv, cover, other
}

func toAttachment(o uploadOutcome) Attachment {
	if o.err != nil || o.upload.URL == "" {
		return Attachment{}
	}
	return Attachment{URL: o.upload.URL, Filename: o.upload.Filename, Key: o.upload.Key}
}

// discard removes uploaded objects that will never be referenced.
func (s *Service) discard(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.Files.Delete(ctx, key); err != nil {
			telemetry.Warn("candidature.discard_failed", map[string]any{"key": key, "error": err})
		}
	}
}

func (s *Service) notify(ctx context.Context, c Candidature) {
	data := email.CandidatureData{
		Civility:          c.Civility,
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		Email:             c.Email,
		Phone:             c.Phone,
		BirthDate:         c.BirthDate.Format("02/01/2006"),
		CategoryFormation: c.CategoryFormation,
		Formation:         c.Formation,
		EducationLevel:    c.EducationLevel,
		CurrentSituation:  c.CurrentSituation,
		Motivation:        c.Motivation,
		CVURL:             c.CV.URL,
		CoverLetterURL:    c.CoverLetter.URL,
		OtherDocumentURL:  c.OtherDocument.URL,
	}
	if msg, err := email.CandidatureConfirmation(c.Email, data); err == nil {
		s.send(ctx, "candidature_confirmation", c.ID, msg)
	} else {
		telemetry.Error("candidature.email_render_failed", map[string]any{"template": "candidature_confirmation", "error": err})
	}

	adminEmail := s.AdminEmail
	if adminEmail == "" {
		adminEmail = email.DefaultAdminEmail
	}
	if msg, err := email.CandidatureAdminNotification(adminEmail, data); err == nil {
		s.send(ctx, "candidature_admin", c.ID, msg)
	} else {
		telemetry.Error("candidature.email_render_failed", map[string]any{"template": "candidature_admin", "error": err})
	}
}

func (s *Service) send(ctx context.Context, template, id string, msg email.Message) email.Result {
	res := s.Mailer.Send(ctx, msg)
	metrics.IncEmail(template, res.Success)
	if !res.Success {
		telemetry.Warn("candidature.email_failed", map[string]any{
			"request_id":     telemetry.RequestID(ctx),
			"candidature_id": id,
			"template":       template,
			"error":          res.Err,
		})
	}
	return res
}

// Get returns one candidature.
func (s *Service) Get(ctx context.Context, id string) (Candidature, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Candidature{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns candidatures for the back office.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Candidature, error) {
	return s.Repo.List(ctx, f)
}

// UpdateStatus moves a candidature through the review workflow and returns
// the previous status.
func (s *Service) UpdateStatus(ctx context.Context, id string, raw string) (Candidature, leadstatus.Status, error) {
	next, err := leadstatus.Parse(raw)
	if err != nil {
		return Candidature{}, "", ErrInvalidStatus
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return Candidature{}, "", err
	}
	prev := c.Status
	if !leadstatus.CanTransition(prev, next) {
		return Candidature{}, prev, ErrInvalidTransition
	}
	if prev != next {
		if err := s.Repo.UpdateStatus(ctx, id, prev, next); err != nil {
			return Candidature{}, prev, err
		}
	}
	c.Status = next
	return c, prev, nil
}

// Delete removes the record, then best-effort removes its stored files.
func (s *Service) Delete(ctx context.Context, id string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.discard(ctx, c.attachmentKeys()...)
	return nil
}

// SendEmail sends an admin-authored message to the applicant.
func (s *Service) SendEmail(ctx context.Context, id, subject, message string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	msg, err := email.Custom(c.Email, subject, email.CustomData{Name: c.FirstName + " " + c.LastName, Message: message})
	if err != nil {
		return err
	}
	res := s.send(ctx, "candidature_custom", c.ID, msg)
	if !res.Success {
		return fmt.Errorf("%w: %v", ErrEmailFailed, res.Err)
	}
	return nil
}

// OpenDocument streams one stored attachment.
func (s *Service) OpenDocument(ctx context.Context, id string, doc Document) (io.ReadCloser, Attachment, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, Attachment{}, err
	}
	att, ok := c.Attachment(doc)
	if !ok || att.Key == "" {
		return nil, Attachment{}, ErrNoDocument
	}
	rc, err := s.Files.Open(ctx, att.Key)
	if err != nil {
		return nil, Attachment{}, err
	}
	return rc, att, nil
}

// ResumeText extracts the plain text of the applicant's résumé.
func (s *Service) ResumeText(ctx context.Context, id string) (string, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if c.CV.Key == "" {
		return "", ErrNoDocument
	}
	maxBytes := s.MaxFileBytes
	if maxBytes <= 0 {
		maxBytes = filestore.DefaultMaxBytes
	}
	return extract.Text(ctx, s.Files, c.CV.Key, c.CV.Filename, maxBytes)
}
