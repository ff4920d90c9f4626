package inscriptions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FormationLookup resolves the formation an inscription targets.
type FormationLookup interface {
	// Formation returns ErrFormationNotFound for unknown ids. NextSession is
	// the first available session starting at or after now.
	Formation(ctx context.Context, id string, now time.Time) (Formation, error)
}

// PGFormations reads formations and their sessions from Postgres.
type PGFormations struct {
	DB *sql.DB
}

func (f *PGFormations) Formation(ctx context.Context, id string, now time.Time) (Formation, error) {
	var out Formation
	var next sql.NullTime
	err := f.DB.QueryRowContext(ctx, `
SELECT f.id, f.title, f.slug,
       (SELECT MIN(s.start_date) FROM formation_sessions s
        WHERE s.formation_id = f.id AND s.available AND s.start_date >= $2)
FROM formations f
WHERE f.id = $1`, id, now).Scan(&out.ID, &out.Title, &out.Slug, &next)
	if errors.Is(err, sql.ErrNoRows) {
		return Formation{}, ErrFormationNotFound
	}
	if err != nil {
		return Formation{}, fmt.Errorf("lookup formation: %w", err)
	}
	if next.Valid {
		t := next.Time.UTC()
		out.NextSession = &t
	}
	return out, nil
}

// Upsert creates or renames a formation and appends sessions to it.
func (f *PGFormations) Upsert(ctx context.Context, ref FormationRef, sessions ...Session) error {
	tx, err := f.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
INSERT INTO formations (id, title, slug)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, slug = EXCLUDED.slug`,
		ref.ID, ref.Title, ref.Slug)
	if err != nil {
		return fmt.Errorf("upsert formation: %w", err)
	}
	for _, s := range sessions {
		_, err := tx.ExecContext(ctx, `
INSERT INTO formation_sessions (id, formation_id, start_date, available)
VALUES ($1, $2, $3, $4)`,
			uuid.NewString(), ref.ID, s.Start.UTC(), s.Available)
		if err != nil {
			return fmt.Errorf("insert formation session: %w", err)
		}
	}
	return tx.Commit()
}

// Session is one scheduled run of a formation.
type Session struct {
	Start     time.Time
	Available bool
}

// MemoryFormations is a FormationLookup for development and tests.
type MemoryFormations struct {
	mu       sync.RWMutex
	items    map[string]FormationRef
	sessions map[string][]Session
}

func NewMemoryFormations() *MemoryFormations {
	return &MemoryFormations{items: map[string]FormationRef{}, sessions: map[string][]Session{}}
}

// Add registers a formation with its sessions.
func (m *MemoryFormations) Add(ref FormationRef, sessions ...Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[ref.ID] = ref
	m.sessions[ref.ID] = append(m.sessions[ref.ID], sessions...)
}

func (m *MemoryFormations) Upsert(ctx context.Context, ref FormationRef, sessions ...Session) error {
	m.Add(ref, sessions...)
	return nil
}

func (m *MemoryFormations) Formation(ctx context.Context, id string, now time.Time) (Formation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ref, ok := m.items[id]
	if !ok {
		return Formation{}, ErrFormationNotFound
	}
	out := Formation{FormationRef: ref}
	for _, s := range m.sessions[id] {
		if !s.Available || s.Start.Before(now) {
			continue
		}
		if out.NextSession == nil || s.Start.Before(*out.NextSession) {
			start := s.Start
			out.NextSession = &start
		}
	}
	return out, nil
}

var (
	_ FormationLookup = (*PGFormations)(nil)
	_ FormationLookup = (*MemoryFormations)(nil)
)
