package contacts

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

func (r *PGRepo) Create(ctx context.Context, c ContactRequest) error {
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO contact_requests (id, name, email, message, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Email, c.Message, string(c.Status), c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact request: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (ContactRequest, error) {
	row := r.DB.QueryRowContext(ctx, `
SELECT id, name, email, message, status, created_at
FROM contact_requests
WHERE id = $1`, id)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ContactRequest{}, ErrNotFound
	}
	return c, err
}

func (r *PGRepo) List(ctx context.Context) ([]ContactRequest, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT id, name, email, message, status, created_at
FROM contact_requests
ORDER BY CASE status WHEN 'NEW' THEN 0 WHEN 'TREATED' THEN 1 ELSE 2 END, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ContactRequest
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id string, from, to leadstatus.Status) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE contact_requests SET status = $1 WHERE id = $2 AND status = $3`,
		string(to), id, string(from))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil || n > 0 {
		return err
	}
	var exists bool
	err = r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM contact_requests WHERE id = $1)`, id).Scan(&exists)
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
	res, err := r.DB.ExecContext(ctx, `DELETE FROM contact_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (ContactRequest, error) {
	var c ContactRequest
	var status string
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Message, &status, &c.CreatedAt); err != nil {
		return ContactRequest{}, err
	}
	c.Status = leadstatus.Status(status)
	return c, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
