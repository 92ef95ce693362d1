//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// Appointment is a scheduled meeting between the owner and a contact.
type Appointment struct {
	ID        string    `json:"id"              db:"id"`
	OwnerID   string    `json:"owner_id"        db:"owner_id"`
	Title     string    `json:"title"           db:"title"`
	With      string    `json:"with"            db:"with_contact"`
	StartsAt  time.Time `json:"starts_at"       db:"starts_at"`
	Notes     string    `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at"      db:"created_at"`
	UpdatedAt time.Time `json:"updated_at"      db:"updated_at"`
}

// CreateAppointmentRequest represents parameters to create an Appointment.
type CreateAppointmentRequest struct {
	Title    string    `json:"title"`
	With     string    `json:"with"`
	StartsAt time.Time `json:"starts_at"`
	Notes    string    `json:"notes,omitempty"`
}

// UpdateAppointmentRequest represents parameters to update an Appointment.
type UpdateAppointmentRequest struct {
	Title    *string    `json:"title,omitempty"`
	With     *string    `json:"with,omitempty"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}

// Validate validates CreateAppointmentRequest.
func (r *CreateAppointmentRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required and cannot be empty")
	}
	if strings.TrimSpace(r.With) == "" {
		return errors.New("with is required")
	}
	if r.StartsAt.IsZero() {
		return errors.New("starts_at is required")
	}
	return nil
}

// Validate validates UpdateAppointmentRequest.
func (r *UpdateAppointmentRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return errors.New("title cannot be empty")
	}
	if r.StartsAt != nil && r.StartsAt.IsZero() {
		return errors.New("starts_at cannot be zero")
	}
	return nil
}
