package inscriptions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cozetik-backend/internal/shared/leadstatus"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectInscription = `
SELECT i.id, i.name, i.email, i.phone, i.message, i.status, i.created_at,
       f.id, f.title, f.slug
FROM formation_inscriptions i
JOIN formations f ON f.id = i.formation_id`

func (r *PGRepo) Create(ctx context.Context, in Inscription) error {
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO formation_inscriptions (id, name, email, phone, message, formation_id, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		in.ID, in.Name, in.Email, in.Phone, in.Message, in.FormationID, string(in.Status), in.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inscription: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Inscription, error) {
	in, err := scanInscription(r.DB.QueryRowContext(ctx, selectInscription+`
WHERE i.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Inscription{}, ErrNotFound
	}
	return in, err
}

func (r *PGRepo) List(ctx context.Context) ([]Inscription, error) {
	rows, err := r.DB.QueryContext(ctx, selectInscription+`
ORDER BY CASE i.status WHEN 'NEW' THEN 0 WHEN 'TREATED' THEN 1 ELSE 2 END, i.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Inscription
	for rows.Next() {
		in, err := scanInscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id string, from, to leadstatus.Status) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE formation_inscriptions SET status = $1 WHERE id = $2 AND status = $3`,
		string(to), id, string(from))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil || n > 0 {
		return err
	}
	var exists bool
	err = r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM formation_inscriptions WHERE id = $1)`, id).Scan(&exists)
	switch {
	case err != nil:
		return err
	case !exists:
		return ErrNotFound
	default:
		return ErrInvalidTransition
	}
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM formation_inscriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInscription(row rowScanner) (Inscription, error) {
	var in Inscription
	var status string
	err := row.Scan(&in.ID, &in.Name, &in.Email, &in.Phone, &in.Message, &status, &in.CreatedAt,
		&in.Formation.ID, &in.Formation.Title, &in.Formation.Slug)
	if err != nil {
		return Inscription{}, err
	}
	in.Status = leadstatus.Status(status)
	in.FormationID = in.Formation.ID
	return in, nil
}

var _ Repo = (*PGRepo)(nil)
