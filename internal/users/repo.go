package users

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "admin user not found" }

type Repo interface {
	// Upsert creates the user or updates name, hash and role of the account
	// with the same email. It returns the stored user.
	Upsert(ctx context.Context, user AdminUser) (AdminUser, error)
	GetByID(ctx context.Context, userID string) (AdminUser, error)
	GetByEmail(ctx context.Context, email string) (AdminUser, error)
	List(ctx context.Context) ([]AdminUser, error)
}
