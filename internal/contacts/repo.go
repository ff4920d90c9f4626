package contacts

import (
	"context"

	"cozetik-backend/internal/shared/leadstatus"
)

// Repo persists contact requests.
type Repo interface {
	Create(ctx context.Context, r ContactRequest) error
	GetByID(ctx context.Context, id string) (ContactRequest, error)
	// List orders by workflow status (NEW first) then newest first.
	List(ctx context.Context) ([]ContactRequest, error)
	// UpdateStatus is a compare-and-set: it fails with ErrInvalidTransition
	// when the stored status no longer equals from.
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
