package users

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

const adminColumns = `id, email, name, password_hash, role, created_at, updated_at`

func (r *PGRepo) Upsert(ctx context.Context, user AdminUser) (AdminUser, error) {
	const query = `
INSERT INTO admin_users (id, email, name, password_hash, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (email) DO UPDATE SET
  name = EXCLUDED.name,
  password_hash = EXCLUDED.password_hash,
  role = EXCLUDED.role,
  updated_at = now()
RETURNING ` + adminColumns
	return scanAdmin(r.DB.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
	))
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (AdminUser, error) {
	return scanAdmin(r.DB.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admin_users WHERE id = $1 LIMIT 1`, userID))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (AdminUser, error) {
	return scanAdmin(r.DB.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admin_users WHERE email = $1 LIMIT 1`, email))
}

func (r *PGRepo) List(ctx context.Context) ([]AdminUser, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+adminColumns+` FROM admin_users ORDER BY email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AdminUser
	for rows.Next() {
		user, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAdmin(row rowScanner) (AdminUser, error) {
	var user AdminUser
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AdminUser{}, ErrNotFound
		}
		return AdminUser{}, err
	}
	return user, nil
}

var _ Repo = (*PGRepo)(nil)
