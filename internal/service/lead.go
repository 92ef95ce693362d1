package service

import (
	"context"

	"github.com/lindasales/salespro/internal/core"
	"github.com/lindasales/salespro/internal/domain/model"
)

// LeadServiceOptions groups dependencies for LeadService.
type LeadServiceOptions struct {
	LeadRepo core.LeadRepository
	Notifier *NotificationService
}

// LeadService orchestrates owner-scoped lead CRUD.
type LeadService struct {
	leads    core.LeadRepository
	notifier *NotificationService
}

// NewLeadService constructs a new LeadService.
func NewLeadService(opts LeadServiceOptions) *LeadService {
	return &LeadService{leads: opts.LeadRepo, notifier: opts.Notifier}
}

// Create creates a lead for the owner.
func (s *LeadService) Create(ctx context.Context, ownerID string, req *model.CreateLeadRequest) (*model.Lead, error) {
	lead, err := s.leads.Create(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}
	s.notifier.Success(ctx, ownerID, "Lead added.")
	return lead, nil
}

// GetByID retrieves one of the owner's leads.
func (s *LeadService) GetByID(ctx context.Context, ownerID, id string) (*model.Lead, error) {
	return s.leads.GetByID(ctx, ownerID, id)
}

// List returns a filtered page of the owner's leads.
func (s *LeadService) List(ctx context.Context, ownerID string, opts model.LeadsListOptions) ([]*model.Lead, error) {
	return s.leads.List(ctx, ownerID, normalizeLeadListOptions(opts))
}

// Update updates one of the owner's leads.
func (s *LeadService) Update(ctx context.Context, ownerID, id string, req model.UpdateLeadRequest) (*model.Lead, error) {
	return s.leads.Update(ctx, ownerID, id, req)
}

// Delete removes one of the owner's leads.
func (s *LeadService) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	ok, err := s.leads.Delete(ctx, ownerID, id)
	if err != nil || !ok {
		return ok, err
	}
	s.notifier.Info(ctx, ownerID, "Lead deleted.")
	return ok, nil
}

func normalizeLeadListOptions(opts model.LeadsListOptions) model.LeadsListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return opts
}
