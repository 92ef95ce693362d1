package service

import (
	"context"

	"github.com/lindasales/salespro/internal/core"
	"github.com/lindasales/salespro/internal/domain/model"
)

// MessageServiceOptions groups dependencies for MessageService.
type MessageServiceOptions struct {
	MessageRepo core.MessageRepository
}

// MessageService orchestrates the messaging page: per-contact threads derived
// from the owner's message history.
type MessageService struct {
	messages core.MessageRepository
}

// NewMessageService constructs a new MessageService.
func NewMessageService(opts MessageServiceOptions) *MessageService {
	return &MessageService{messages: opts.MessageRepo}
}

// Send records an outbound message in the contact's thread.
func (s *MessageService) Send(ctx context.Context, ownerID string, req *model.CreateMessageRequest) (*model.Message, error) {
	return s.messages.Create(ctx, ownerID, req)
}

// Thread returns the conversation with one contact, oldest first.
func (s *MessageService) Thread(ctx context.Context, ownerID, contact string, limit int) ([]*model.Message, error) {
	return s.messages.ListThread(ctx, ownerID, contact, limit)
}

// Contacts returns the contacts the owner has conversations with.
func (s *MessageService) Contacts(ctx context.Context, ownerID string) ([]string, error) {
	return s.messages.ListContacts(ctx, ownerID)
}
