package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/imobix/imobix/internal/platform/httpx"
)

// ErrInvalidCredentials indicates login failure.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials. Store failures are
// returned as-is so they are not mistaken for bad credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if !VerifyPassword(user.PasswordHash, password) {
		return User{}, ErrInvalidCredentials
	}
	if user.Status != StatusActive {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}
