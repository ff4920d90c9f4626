package inscriptions

import (
	"context"

	"cozetik-backend/internal/shared/leadstatus"
)

// Repo persists formation inscriptions.
type Repo interface {
	Create(ctx context.Context, in Inscription) error
	GetByID(ctx context.Context, id string) (Inscription, error)
	// List orders by workflow status (NEW first) then newest first.
	List(ctx context.Context) ([]Inscription, error)
	// UpdateStatus only applies when the stored status still equals from;
	// otherwise it returns ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id string, from, to leadstatus.Status) error
	Delete(ctx context.Context, id string) error
}

func statusRank(s leadstatus.Status) int {
	switch s {
	case leadstatus.New:
		return 0
	case leadstatus.Treated:
		return 1
	default:
		return 2
	}
}
