// Package templates manages the document templates agencies pick from.
package templates

import "time"

// Template is a reusable document template. Name is unique.
type Template struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Body        string    `json:"body"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListResponse is the listing payload.
type ListResponse struct {
	Templates []Template `json:"templates"`
}

// CreateInput carries a new template.
type CreateInput struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
	Category    string `json:"category" validate:"max=60"`
	Body        string `json:"body" validate:"required"`
}

// SetActiveInput toggles a template.
type SetActiveInput struct {
	ID     int64 `json:"-"`
	Active *bool `json:"active" validate:"required"`
}
