package auth

import (
	"context"
	"time"
)

// Role identifies which dashboard a principal belongs to.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAgency Role = "agency"
	RoleClient Role = "client"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgency, RoleClient:
		return true
	}
	return false
}

// Status is the account standing of a principal.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusPending   Status = "pending"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusPending:
		return true
	}
	return false
}

// Principal is the authenticated caller of a request. It is resolved on every
// request and never persisted by the auth layer.
type Principal struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Status   Status `json:"status"`
	AgencyID *int64 `json:"agencyId,omitempty"`
}

// Active reports whether the principal may act.
func (p Principal) Active() bool {
	return p.Status == StatusActive
}

// User represents a stored account.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Status       Status
	AgencyID     *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal projects the account onto the request identity.
func (u User) Principal() Principal {
	return Principal{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		Status:   u.Status,
		AgencyID: u.AgencyID,
	}
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext returns the principal stored by the guard.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}

// DashboardFor returns the dashboard layout path for a role.
func DashboardFor(role Role) string {
	switch role {
	case RoleAdmin:
		return "/admin"
	case RoleAgency:
		return "/agency"
	case RoleClient:
		return "/client"
	default:
		return "/"
	}
}
