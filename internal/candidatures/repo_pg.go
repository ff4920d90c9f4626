package candidatures

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"cozetik-backend/internal/shared/leadstatus"
)

const pgUniqueViolation = "23505"

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `
id, civility, first_name, last_name, birth_date, email, phone, address, postal_code, city,
category_formation, formation, education_level, current_situation, start_date, motivation,
cv_url, cv_filename, cv_key,
cover_letter_url, cover_letter_filename, cover_letter_key,
other_document_url, other_document_filename, other_document_key,
accept_privacy, accept_newsletter, status, created_at`

// Create inserts a new candidature.
func (r *PGRepo) Create(ctx context.Context, c Candidature) error {
	const query = `
INSERT INTO candidatures (
    id, civility, first_name, last_name, birth_date, email, phone, address, postal_code, city,
    category_formation, formation, education_level, current_situation, start_date, motivation,
    cv_url, cv_filename, cv_key,
    cover_letter_url, cover_letter_filename, cover_letter_key,
    other_document_url, other_document_filename, other_document_key,
    accept_privacy, accept_newsletter, status, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		c.ID,
		nullString(c.Civility),
		c.FirstName,
		c.LastName,
		c.BirthDate,
		c.Email,
		c.Phone,
		nullString(c.Address),
		nullString(c.PostalCode),
		nullString(c.City),
		c.CategoryFormation,
		c.Formation,
		nullString(c.EducationLevel),
		c.CurrentSituation,
		nullString(c.StartDate),
		c.Motivation,
		c.CV.URL,
		nullString(c.CV.Filename),
		nullString(c.CV.Key),
		nullString(c.CoverLetter.URL),
		nullString(c.CoverLetter.Filename),
		nullString(c.CoverLetter.Key),
		nullString(c.OtherDocument.URL),
		nullString(c.OtherDocument.Filename),
		nullString(c.OtherDocument.Key),
		c.AcceptPrivacy,
		c.AcceptNewsletter,
		string(c.Status),
		c.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		}
		return fmt.Errorf("insert candidature: %w", err)
	}
	return nil
}

// GetByID fetches one candidature.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Candidature, error) {
	query := `SELECT ` + selectColumns + ` FROM candidatures WHERE id = $1`
	c, err := scanCandidature(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Candidature{}, ErrNotFound
		}
		return Candidature{}, err
	}
	return c, nil
}

// List returns candidatures newest first.
func (r *PGRepo) List(ctx context.Context, f ListFilter) ([]Candidature, error) {
	f = normalizePage(f)
	query := `SELECT ` + selectColumns + `
FROM candidatures
WHERE ($1 = '' OR status = $1)
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, string(f.Status), f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Candidature
	for rows.Next() {
		c, err := scanCandidature(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateStatus sets the review status if the row still holds from.
func (r *PGRepo) UpdateStatus(ctx context.Context, id string, from, to leadstatus.Status) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE candidatures SET status = $1 WHERE id = $2 AND status = $3`,
		string(to), id, string(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM candidatures WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrInvalidTransition
}

// Delete removes a candidature.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM candidatures WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidature(row rowScanner) (Candidature, error) {
	var c Candidature
	var civility, address, postalCode, city, educationLevel, startDate sql.NullString
	var cvFilename, cvKey sql.NullString
	var coverURL, coverFilename, coverKey sql.NullString
	var otherURL, otherFilename, otherKey sql.NullString
	var status string
	err := row.Scan(
		&c.ID,
		&civility,
		&c.FirstName,
		&c.LastName,
		&c.BirthDate,
		&c.Email,
		&c.Phone,
		&address,
		&postalCode,
		&city,
		&c.CategoryFormation,
		&c.Formation,
		&educationLevel,
		&c.CurrentSituation,
		&startDate,
		&c.Motivation,
		&c.CV.URL,
		&cvFilename,
		&cvKey,
		&coverURL,
		&coverFilename,
		&coverKey,
		&otherURL,
		&otherFilename,
		&otherKey,
		&c.AcceptPrivacy,
		&c.AcceptNewsletter,
		&status,
		&c.CreatedAt,
	)
	if err != nil {
		return Candidature{}, err
	}
	c.Civility = civility.String
	c.Address = address.String
	c.PostalCode = postalCode.String
	c.City = city.String
	c.EducationLevel = educationLevel.String
	c.StartDate = startDate.String
	c.CV.Filename = cvFilename.String
	c.CV.Key = cvKey.String
	c.CoverLetter = Attachment{URL: coverURL.String, Filename: coverFilename.String, Key: coverKey.String}
	c.OtherDocument = Attachment{URL: otherURL.String, Filename: otherFilename.String, Key: otherKey.String}
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

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
