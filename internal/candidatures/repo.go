package candidatures

import (
	"context"

	"cozetik-backend/internal/shared/leadstatus"
)

// ListFilter narrows admin listings. Empty Status lists every status.
type ListFilter struct {
	Status leadstatus.Status
	Limit  int
	Offset int
}

// Repo defines persistence operations for candidatures.
type Repo interface {
	Create(ctx context.Context, c Candidature) error
	GetByID(ctx context.Context, id string) (Candidature, error)
	List(ctx context.Context, f ListFilter) ([]Candidature, error)
	// UpdateStatus moves id from one status to another only if the stored
	// status still equals from. A stale from yields ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id string, from, to leadstatus.Status) error
	Delete(ctx context.Context, id string) error
}

func normalizePage(f ListFilter) ListFilter {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
