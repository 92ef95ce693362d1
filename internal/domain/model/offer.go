//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxOfferTitleLen = 255

// Offer is a sellable product or training package shown on the offers board.
type Offer struct {
	ID         string    `json:"id"          db:"id"`
	OwnerID    string    `json:"owner_id"    db:"owner_id"`
	Title      string    `json:"title"       db:"title"`
	PriceCents int64     `json:"price_cents" db:"price_cents"`
	Currency   string    `json:"currency"    db:"currency"`
	CreatedAt  time.Time `json:"created_at"  db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"  db:"updated_at"`
}

// CreateOfferRequest represents parameters to create an Offer.
type CreateOfferRequest struct {
	Title      string `json:"title"`
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency,omitempty"`
}

// UpdateOfferRequest represents parameters to update an Offer.
type UpdateOfferRequest struct {
	Title      *string `json:"title,omitempty"`
	PriceCents *int64  `json:"price_cents,omitempty"`
	Currency   *string `json:"currency,omitempty"`
}

// Validate validates CreateOfferRequest and normalizes the currency.
func (r *CreateOfferRequest) Validate() error {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return errors.New("title is required and cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxOfferTitleLen {
		return errors.New("title cannot exceed 255 characters")
	}
	if r.PriceCents < 0 {
		return errors.New("price_cents cannot be negative")
	}
	r.Currency = normalizeCurrency(r.Currency)
	return nil
}

// Validate validates UpdateOfferRequest.
func (r *UpdateOfferRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return errors.New("title cannot be empty")
	}
	if r.PriceCents != nil && *r.PriceCents < 0 {
		return errors.New("price_cents cannot be negative")
	}
	if r.Currency != nil {
		*r.Currency = normalizeCurrency(*r.Currency)
	}
	return nil
}

// normalizeCurrency trims and uppercases the code, defaulting to NGN when empty.
func normalizeCurrency(code string) string {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return "NGN"
	}
	return normalized
}
