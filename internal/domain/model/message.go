//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// MessageDirection marks whether a message was sent or received by the owner.
type MessageDirection string

const (
	MessageOutbound MessageDirection = "outbound"
	MessageInbound  MessageDirection = "inbound"
)

// Valid reports whether the direction is supported.
func (d MessageDirection) Valid() bool {
	return d == MessageOutbound || d == MessageInbound
}

// Message is one entry of a conversation thread with a contact, keyed by the
// contact address. Threads are derived, not stored.
type Message struct {
	ID        string           `json:"id"        db:"id"`
	OwnerID   string           `json:"owner_id"  db:"owner_id"`
	Contact   string           `json:"contact"   db:"contact"`
	Direction MessageDirection `json:"direction" db:"direction"`
	Body      string           `json:"body"      db:"body"`
	SentAt    time.Time        `json:"sent_at"   db:"sent_at"`
}

// CreateMessageRequest represents parameters to record a Message.
type CreateMessageRequest struct {
	Contact   string           `json:"contact"`
	Direction MessageDirection `json:"direction,omitempty"`
	Body      string           `json:"body"`
}

// Validate validates CreateMessageRequest, defaulting the direction to outbound.
func (r *CreateMessageRequest) Validate() error {
	if strings.TrimSpace(r.Contact) == "" {
		return errors.New("contact is required")
	}
	if strings.TrimSpace(r.Body) == "" {
		return errors.New("body cannot be empty")
	}
	if r.Direction == "" {
		r.Direction = MessageOutbound
	}
	if !r.Direction.Valid() {
		return errors.New("invalid message direction")
	}
	return nil
}
