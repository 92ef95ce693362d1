package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Identity represents the authenticated principal returned by an identity
// provider (federated flow) or by local credential verification.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable user identifier (e.g., OIDC sub or local user id)
	Name      string
	Email     string
	AvatarURL string
	ExpiresAt time.Time // absolute expiry from IdP token; zero for local identities
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session expiry has passed at the given instant.
func (s Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Event describes a session lifecycle transition observed by subscribers.
type Event struct {
	// Session carries the full identity on sign-in; on sign-out only ID and
	// UserID are guaranteed to be set.
	Session Session
	// SignedIn is true when a session was established, false when destroyed.
	SignedIn bool
}
