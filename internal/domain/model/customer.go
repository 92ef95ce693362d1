//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// Customer is a converted lead: a paying contact owned by one user.
type Customer struct {
	ID        string    `json:"id"                db:"id"`
	OwnerID   string    `json:"owner_id"          db:"owner_id"`
	Name      string    `json:"name"              db:"name"`
	Email     string    `json:"email,omitempty"   db:"email"`
	Phone     string    `json:"phone,omitempty"   db:"phone"`
	Company   string    `json:"company,omitempty" db:"company"`
	Notes     string    `json:"notes,omitempty"   db:"notes"`
	CreatedAt time.Time `json:"created_at"        db:"created_at"`
	UpdatedAt time.Time `json:"updated_at"        db:"updated_at"`
}

// CreateCustomerRequest represents parameters to create a Customer.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// UpdateCustomerRequest represents parameters to update a Customer.
type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// Validate validates CreateCustomerRequest.
func (r *CreateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required and cannot be empty")
	}
	return nil
}

// Validate validates UpdateCustomerRequest.
func (r *UpdateCustomerRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name cannot be empty")
	}
	return nil
}
