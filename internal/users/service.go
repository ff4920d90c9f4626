package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cozetik-backend/internal/shared/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidEmail       = errors.New("invalid email")
)

const minPasswordLength = 8

// dummyHash is compared when the email is unknown.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("cozetik-dummy-password"), bcrypt.DefaultCost)

type Service struct {
	Repo   Repo
	Signer *auth.Signer
}

func NewService(repo Repo, signer *auth.Signer) *Service {
	return &Service{Repo: repo, Signer: signer}
}

// Login checks credentials and returns a signed session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, AdminUser, error) {
	if s == nil || s.Repo == nil || s.Signer == nil {
		return "", AdminUser{}, errors.New("users service not configured")
	}
	email = normalizeEmail(email)
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", AdminUser{}, ErrInvalidCredentials
		}
		return "", AdminUser{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", AdminUser{}, ErrInvalidCredentials
	}
	if user.Role != auth.RoleAdmin {
		return "", AdminUser{}, ErrInvalidCredentials
	}

	token, err := s.Signer.Sign(auth.Claims{
		Sub:   user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	})
	if err != nil {
		return "", AdminUser{}, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

// Seed creates or updates an admin account.
func (s *Service) Seed(ctx context.Context, email, name, password string) (AdminUser, error) {
	if s == nil || s.Repo == nil {
		return AdminUser{}, errors.New("users service not configured")
	}
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return AdminUser{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return AdminUser{}, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AdminUser{}, err
	}
	return s.Repo.Upsert(ctx, AdminUser{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		Role:         auth.RoleAdmin,
	})
}

func (s *Service) GetByID(ctx context.Context, userID string) (AdminUser, error) {
	if s == nil || s.Repo == nil {
		return AdminUser{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return AdminUser{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) List(ctx context.Context) ([]AdminUser, error) {
	return s.Repo.List(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
