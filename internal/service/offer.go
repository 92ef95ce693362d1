package service

import (
	"context"

	"github.com/lindasales/salespro/internal/core"
	"github.com/lindasales/salespro/internal/domain/model"
)

// OfferServiceOptions groups dependencies for OfferService.
type OfferServiceOptions struct {
	OfferRepo core.OfferRepository
	Notifier  *NotificationService
}

// OfferService orchestrates owner-scoped offer CRUD for the sell page.
type OfferService struct {
	offers   core.OfferRepository
	notifier *NotificationService
}

// NewOfferService constructs a new OfferService.
func NewOfferService(opts OfferServiceOptions) *OfferService {
	return &OfferService{offers: opts.OfferRepo, notifier: opts.Notifier}
}

// Create creates an offer for the owner.
func (s *OfferService) Create(ctx context.Context, ownerID string, req *model.CreateOfferRequest) (*model.Offer, error) {
	offer, err := s.offers.Create(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}
	s.notifier.Success(ctx, ownerID, "Offer published.")
	return offer, nil
}

// GetByID retrieves one of the owner's offers.
func (s *OfferService) GetByID(ctx context.Context, ownerID, id string) (*model.Offer, error) {
	return s.offers.GetByID(ctx, ownerID, id)
}

// List returns a page of the owner's offers.
func (s *OfferService) List(ctx context.Context, ownerID string, limit, offset int) ([]*model.Offer, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.offers.List(ctx, ownerID, limit, offset)
}

// Update updates one of the owner's offers.
func (s *OfferService) Update(ctx context.Context, ownerID, id string, req model.UpdateOfferRequest) (*model.Offer, error) {
	return s.offers.Update(ctx, ownerID, id, req)
}

// Delete removes one of the owner's offers.
func (s *OfferService) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	return s.offers.Delete(ctx, ownerID, id)
}
