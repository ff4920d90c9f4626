package inscriptions

import (
	"time"

	"cozetik-backend/internal/shared/leadstatus"
)

// Inscription is a request to join a formation sent through its public page.
type Inscription struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Message     string
	FormationID string
	Status      leadstatus.Status
	CreatedAt   time.Time

	// Formation is filled on reads.
	Formation FormationRef
}

// FormationRef is the part of a formation shown next to an inscription.
type FormationRef struct {
	ID    string
	Title string
	Slug  string
}

// Formation is what the intake needs to know about a formation.
type Formation struct {
	FormationRef
	// NextSession is the earliest available session still to come.
	NextSession *time.Time
}
