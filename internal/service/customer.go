package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lindasales/salespro/internal/core"
	"github.com/lindasales/salespro/internal/data"
	"github.com/lindasales/salespro/internal/domain/model"
)

// CustomerServiceOptions groups dependencies for CustomerService.
type CustomerServiceOptions struct {
	CustomerRepo core.CustomerRepository
	LeadRepo     core.LeadRepository
	Notifier     *NotificationService
}

// CustomerService orchestrates owner-scoped customer CRUD, including
// promoting a qualified lead into a customer record.
type CustomerService struct {
	customers core.CustomerRepository
	leads     core.LeadRepository
	notifier  *NotificationService
}

// NewCustomerService constructs a new CustomerService.
func NewCustomerService(opts CustomerServiceOptions) *CustomerService {
	return &CustomerService{
		customers: opts.CustomerRepo,
		leads:     opts.LeadRepo,
		notifier:  opts.Notifier,
	}
}

// Create creates a customer for the owner.
func (s *CustomerService) Create(ctx context.Context, ownerID string, req *model.CreateCustomerRequest) (*model.Customer, error) {
	customer, err := s.customers.Create(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}
	s.notifier.Success(ctx, ownerID, "Customer added.")
	return customer, nil
}

// PromoteLead converts one of the owner's leads into a customer. The lead is
// marked qualified rather than deleted, so its history stays visible.
func (s *CustomerService) PromoteLead(ctx context.Context, ownerID, leadID string) (*model.Customer, error) {
	lead, err := s.leads.GetByID(ctx, ownerID, leadID)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.Create(ctx, ownerID, &model.CreateCustomerRequest{
		Name:  lead.Name,
		Email: lead.Email,
		Phone: lead.Phone,
		Notes: "Promoted from lead " + lead.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("promote lead: %w", err)
	}

	qualified := model.LeadStatusQualified
	if _, updateErr := s.leads.Update(ctx, ownerID, leadID, model.UpdateLeadRequest{Status: &qualified}); updateErr != nil {
		if !errors.Is(updateErr, data.ErrLeadNotFound) {
			return nil, fmt.Errorf("mark lead qualified: %w", updateErr)
		}
	}

	s.notifier.Success(ctx, ownerID, "Lead promoted to customer.")
	return customer, nil
}

// GetByID retrieves one of the owner's customers.
func (s *CustomerService) GetByID(ctx context.Context, ownerID, id string) (*model.Customer, error) {
	return s.customers.GetByID(ctx, ownerID, id)
}

// List returns a page of the owner's customers.
func (s *CustomerService) List(ctx context.Context, ownerID string, limit, offset int) ([]*model.Customer, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.customers.List(ctx, ownerID, limit, offset)
}

// Update updates one of the owner's customers.
func (s *CustomerService) Update(ctx context.Context, ownerID, id string, req model.UpdateCustomerRequest) (*model.Customer, error) {
	return s.customers.Update(ctx, ownerID, id, req)
}

// Delete removes one of the owner's customers.
func (s *CustomerService) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	return s.customers.Delete(ctx, ownerID, id)
}
