package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/imobix/imobix/internal/auth"
	"github.com/imobix/imobix/internal/platform/httpx"
	"github.com/imobix/imobix/internal/rbac"
)

// Service applies account administration rules. Admins manage every account;
// agencies manage the clients of their own agency.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns the accounts visible to the principal.
func (s *Service) List(ctx context.Context, principal auth.Principal, filter ListFilter) (ListResponse, error) {
	scoped, err := scopeFilter(principal, filter)
	if err != nil {
		return ListResponse{}, err
	}
	items, err := s.repo.List(ctx, scoped)
	if err != nil {
		return ListResponse{}, fmt.Errorf("users: list: %w", err)
	}
	return ListResponse{Users: items}, nil
}

// Create stores a new account with a hashed password.
func (s *Service) Create(ctx context.Context, principal auth.Principal, in CreateInput) (Account, error) {
	role := in.Role
	if role == "" {
		role = auth.RoleClient
	}
	agencyID := in.AgencyID
	switch principal.Role {
	case auth.RoleAdmin:
		if role != auth.RoleAdmin && agencyID == nil {
			return Account{}, httpx.Validation(MsgAgencyRequired)
		}
		if role == auth.RoleAdmin {
			agencyID = nil
		}
	case auth.RoleAgency:
		if role != auth.RoleClient || principal.AgencyID == nil {
			return Account{}, httpx.ErrForbidden
		}
		agencyID = principal.AgencyID
	default:
		return Account{}, httpx.ErrForbidden
	}

	account, err := s.repo.Create(ctx, NewAccount{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: auth.HashPassword(in.Password),
		Role:         role,
		Status:       auth.StatusActive,
		AgencyID:     agencyID,
	})
	if err != nil {
		return Account{}, fmt.Errorf("users: create: %w", err)
	}
	s.logger.Info("account created",
		slog.Int64("user_id", account.ID),
		slog.String("role", string(account.Role)),
		slog.Int64("by", principal.ID))
	return account, nil
}

// SetStatus activates or suspends an account.
func (s *Service) SetStatus(ctx context.Context, principal auth.Principal, in StatusInput) (Account, error) {
	if in.ID == principal.ID {
		return Account{}, httpx.Validation(MsgOwnStatus)
	}
	target, err := s.repo.Get(ctx, in.ID)
	if err != nil {
		return Account{}, fmt.Errorf("users: get %d: %w", in.ID, err)
	}
	if principal.Role != auth.RoleAdmin {
		if principal.Role != auth.RoleAgency || target.Role != auth.RoleClient || !rbac.SameAgency(principal, target.AgencyID) {
			// hide accounts of other agencies
			return Account{}, httpx.ErrNotFound
		}
	}
	account, err := s.repo.SetStatus(ctx, in.ID, in.Status)
	if err != nil {
		return Account{}, fmt.Errorf("users: set status %d: %w", in.ID, err)
	}
	s.logger.Info("account status changed",
		slog.Int64("user_id", account.ID),
		slog.String("status", string(account.Status)),
		slog.Int64("by", principal.ID))
	return account, nil
}

func scopeFilter(principal auth.Principal, filter ListFilter) (ListFilter, error) {
	switch principal.Role {
	case auth.RoleAdmin:
		return filter, nil
	case auth.RoleAgency:
		if principal.AgencyID == nil {
			return ListFilter{}, httpx.ErrForbidden
		}
		return ListFilter{Role: auth.RoleClient, AgencyID: principal.AgencyID}, nil
	default:
		return ListFilter{}, httpx.ErrForbidden
	}
}
