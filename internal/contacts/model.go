package contacts

import (
	"time"

	"cozetik-backend/internal/shared/leadstatus"
)

// ContactRequest is a message left through the public contact form.
type ContactRequest struct {
	ID        string
	Name      string
	Email     string
	Message   string
	Status    leadstatus.Status
	CreatedAt time.Time
}
