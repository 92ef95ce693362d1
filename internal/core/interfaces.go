package core

import (
	"context"
	"time"

	"github.com/lindasales/salespro/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// ProfileRepository defines the interface for profile record operations.
// The store owns uniqueness per user ID; callers never create twice.
type ProfileRepository interface {
	// Get retrieves the profile for a user ID, or data.ErrProfileNotFound.
	Get(ctx context.Context, userID string) (*model.Profile, error)
	// Create inserts a brand-new profile (first-ever sign-in).
	Create(ctx context.Context, p *model.Profile) error
	// Upsert writes the full record, preserving created_at for existing rows.
	Upsert(ctx context.Context, p *model.Profile) error
	// TouchLastLogin advances last_login without altering anything else.
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}

// CredentialRepository stores local email/password credentials.
type CredentialRepository interface {
	// Create registers credentials for a new user; duplicate emails return
	// data.ErrEmailTaken.
	Create(ctx context.Context, cred *Credential) error
	// GetByEmail retrieves credentials, or data.ErrCredentialNotFound.
	GetByEmail(ctx context.Context, email string) (*Credential, error)
}

// Credential is a stored local login: a user ID, a unique email, and a
// bcrypt password hash. Plaintext passwords never reach this layer.
type Credential struct {
	UserID       string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// LeadRepository defines the interface for lead data operations.
type LeadRepository interface {
	Create(ctx context.Context, ownerID string, req *model.CreateLeadRequest) (*model.Lead, error)
	GetByID(ctx context.Context, ownerID, id string) (*model.Lead, error)
	List(ctx context.Context, ownerID string, opts model.LeadsListOptions) ([]*model.Lead, error)
	Update(ctx context.Context, ownerID, id string, req model.UpdateLeadRequest) (*model.Lead, error)
	Delete(ctx context.Context, ownerID, id string) (bool, error)
}

// CustomerRepository defines the interface for customer data operations.
type CustomerRepository interface {
	Create(ctx context.Context, ownerID string, req *model.CreateCustomerRequest) (*model.Customer, error)
	GetByID(ctx context.Context, ownerID, id string) (*model.Customer, error)
	List(ctx context.Context, ownerID string, limit, offset int) ([]*model.Customer, error)
	Update(ctx context.Context, ownerID, id string, req model.UpdateCustomerRequest) (*model.Customer, error)
	Delete(ctx context.Context, ownerID, id string) (bool, error)
}

// OfferRepository defines the interface for offer data operations.
type OfferRepository interface {
	Create(ctx context.Context, ownerID string, req *model.CreateOfferRequest) (*model.Offer, error)
	GetByID(ctx context.Context, ownerID, id string) (*model.Offer, error)
	List(ctx context.Context, ownerID string, limit, offset int) ([]*model.Offer, error)
	Update(ctx context.Context, ownerID, id string, req model.UpdateOfferRequest) (*model.Offer, error)
	Delete(ctx context.Context, ownerID, id string) (bool, error)
}

// AppointmentRepository defines the interface for appointment data operations.
type AppointmentRepository interface {
	Create(ctx context.Context, ownerID string, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	GetByID(ctx context.Context, ownerID, id string) (*model.Appointment, error)
	// ListUpcoming returns appointments starting at or after the given instant.
	ListUpcoming(ctx context.Context, ownerID string, from time.Time, limit int) ([]*model.Appointment, error)
	Update(ctx context.Context, ownerID, id string, req model.UpdateAppointmentRequest) (*model.Appointment, error)
	Delete(ctx context.Context, ownerID, id string) (bool, error)
}

// MessageRepository defines the interface for conversation data operations.
type MessageRepository interface {
	Create(ctx context.Context, ownerID string, req *model.CreateMessageRequest) (*model.Message, error)
	// ListThread returns the conversation with one contact, oldest first.
	ListThread(ctx context.Context, ownerID, contact string, limit int) ([]*model.Message, error)
	// ListContacts returns the distinct contacts the owner has threads with.
	ListContacts(ctx context.Context, ownerID string) ([]string, error)
}

// Notification is one transient user-facing message with an auto-dismiss TTL.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // success, info, warning, error
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationStore holds pending transient notifications per user.
type NotificationStore interface {
	// Push appends a notification; implementations enforce the dismiss TTL.
	Push(ctx context.Context, userID string, n Notification) error
	// Drain returns and removes all pending notifications for the user.
	Drain(ctx context.Context, userID string) ([]Notification, error)
}
