//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxLeadNameLen = 255

// LeadStatus tracks where a lead sits in the funnel.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusLost      LeadStatus = "lost"
)

// Valid reports whether the lead status is supported.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusLost:
		return true
	default:
		return false
	}
}

// normalizeLeadStatus trims and lowercases the input, defaulting to new when empty.
func normalizeLeadStatus(v LeadStatus) LeadStatus {
	normalized := LeadStatus(strings.ToLower(strings.TrimSpace(string(v))))
	if normalized == "" {
		return LeadStatusNew
	}
	return normalized
}

// Lead represents a sales lead owned by one user.
type Lead struct {
	ID        string     `json:"id"              db:"id"`
	OwnerID   string     `json:"owner_id"        db:"owner_id"`
	Name      string     `json:"name"            db:"name"`
	Email     string     `json:"email,omitempty" db:"email"`
	Phone     string     `json:"phone,omitempty" db:"phone"`
	Source    string     `json:"source"          db:"source"`
	Status    LeadStatus `json:"status"          db:"status"`
	CreatedAt time.Time  `json:"created_at"      db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"      db:"updated_at"`
}

// CreateLeadRequest represents parameters to create a Lead.
type CreateLeadRequest struct {
	Name   string     `json:"name"`
	Email  string     `json:"email,omitempty"`
	Phone  string     `json:"phone,omitempty"`
	Source string     `json:"source,omitempty"`
	Status LeadStatus `json:"status,omitempty"`
}

// UpdateLeadRequest represents parameters to update a Lead.
type UpdateLeadRequest struct {
	Name   *string     `json:"name,omitempty"`
	Email  *string     `json:"email,omitempty"`
	Phone  *string     `json:"phone,omitempty"`
	Source *string     `json:"source,omitempty"`
	Status *LeadStatus `json:"status,omitempty"`
}

// LeadsListOptions controls paging and filtering for listing leads.
// Q matches name/email via ILIKE substring; Status matches exactly.
type LeadsListOptions struct {
	Limit  int
	Offset int
	Q      *string
	Status *LeadStatus
}

// Validate validates CreateLeadRequest and normalizes the status.
func (r *CreateLeadRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxLeadNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if r.Email == "" && r.Phone == "" {
		return errors.New("a lead needs at least an email or a phone number")
	}
	r.Status = normalizeLeadStatus(r.Status)
	if !r.Status.Valid() {
		return errors.New("invalid lead status")
	}
	return nil
}

// Validate validates UpdateLeadRequest and normalizes the status when set.
func (r *UpdateLeadRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if r.Status != nil {
		normalized := normalizeLeadStatus(*r.Status)
		if !normalized.Valid() {
			return errors.New("invalid lead status")
		}
		*r.Status = normalized
	}
	return nil
}
