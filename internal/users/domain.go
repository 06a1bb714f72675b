// Package users administers dashboard accounts.
package users

import (
	"time"

	"github.com/imobix/imobix/internal/auth"
)

// Account is the public view of a user. The password hash never leaves the repository.
type Account struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      auth.Role   `json:"role"`
	Status    auth.Status `json:"status"`
	AgencyID  *int64      `json:"agencyId,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ListResponse wraps account listings.
type ListResponse struct {
	Users []Account `json:"users"`
}

// ListFilter narrows a listing. Zero values match everything.
type ListFilter struct {
	Role     auth.Role
	AgencyID *int64
}

// CreateInput is the payload for new accounts.
type CreateInput struct {
	Name     string    `json:"name" validate:"required,max=120"`
	Email    string    `json:"email" validate:"required,email,max=254"`
	Password string    `json:"password" validate:"required,min=8,max=128"`
	Role     auth.Role `json:"role" validate:"omitempty,oneof=admin agency client"`
	AgencyID *int64    `json:"agencyId" validate:"omitempty,gt=0"`
}

// NewAccount is what the repository inserts.
type NewAccount struct {
	Name         string
	Email        string
	PasswordHash string
	Role         auth.Role
	Status       auth.Status
	AgencyID     *int64
}

// StatusInput changes the status of one account.
type StatusInput struct {
	ID     int64       `json:"-"`
	Status auth.Status `json:"status" validate:"required,oneof=active suspended"`
}

// User-facing messages.
const (
	MsgAgencyRequired = "Agência obrigatória para este perfil"
	MsgAgencyUnknown  = "Agência não encontrada"
	MsgOwnStatus      = "Não é possível alterar o próprio status"
	MsgEmailTaken     = "Email já cadastrado"
)
