package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"io"

	domainauth "github.com/lindasales/salespro/internal/domain/auth"
)

// BeginInput carries inputs for initiating a federated auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// FederatedProvider initiates and completes a federated sign-in flow against
// an external identity provider.
type FederatedProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// UploadInput carries one avatar upload: the file content plus the preset the
// hosting account expects.
type UploadInput struct {
	FileName string
	Content  io.Reader
	Preset   string
}

// Uploader pushes an image to the external hosting API and returns its
// public HTTPS URL. Callers treat failures as best-effort.
type Uploader interface {
	Upload(ctx context.Context, in UploadInput) (secureURL string, err error)
}
