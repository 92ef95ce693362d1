//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	domainauth "github.com/lindasales/salespro/internal/domain/auth"
)

// DefaultUsername is the fallback display name for identities that carry none.
const DefaultUsername = "User"

// Profile is the durable per-user attribute record, keyed by user ID.
// Exactly one row exists per user; CreatedAt is written on first sign-in and
// never changes afterwards. Field population is resolved once at write time
// (see NewProfileFromIdentity), not re-derived by consumers.
type Profile struct {
	ID        string    `json:"id"         db:"id"`
	Username  string    `json:"username"   db:"username"`
	Email     string    `json:"email"      db:"email"`
	AvatarURL string    `json:"avatar_url" db:"avatar_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	LastLogin time.Time `json:"last_login" db:"last_login"`
}

// NewProfileFromIdentity builds a normalized profile for a first-ever sign-in.
// The first login sets both CreatedAt and LastLogin to now.
func NewProfileFromIdentity(id domainauth.Identity, now time.Time) Profile {
	name := strings.TrimSpace(id.Name)
	if name == "" {
		name = DefaultUsername
	}
	return Profile{
		ID:        id.UserID,
		Username:  name,
		Email:     strings.TrimSpace(id.Email),
		AvatarURL: id.AvatarURL,
		CreatedAt: now.UTC(),
		LastLogin: now.UTC(),
	}
}

// Validate validates a profile before persistence.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("profile id is required")
	}
	if strings.TrimSpace(p.Username) == "" {
		return errors.New("username is required")
	}
	if p.CreatedAt.IsZero() {
		return errors.New("created_at is required")
	}
	return nil
}

// Initials returns the single-letter avatar fallback for the profile.
func (p *Profile) Initials() string {
	name := strings.TrimSpace(p.Username)
	if name == "" || name == DefaultUsername {
		return "U"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(r))
}
