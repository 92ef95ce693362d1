package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lindasales/salespro/internal/data"
	"github.com/lindasales/salespro/internal/domain/model"
	gomocks "github.com/lindasales/salespro/internal/mocks"
)

type customerFixture struct {
	svc       *CustomerService
	customers *gomocks.MockCustomerRepository
	leads     *gomocks.MockLeadRepository
	notify    *memNotifyStore
}

func newCustomerFixture(t *testing.T) *customerFixture {
	ctrl := gomock.NewController(t)
	f := &customerFixture{
		customers: gomocks.NewMockCustomerRepository(ctrl),
		leads:     gomocks.NewMockLeadRepository(ctrl),
		notify:    newMemNotifyStore(),
	}
	f.svc = NewCustomerService(CustomerServiceOptions{
		CustomerRepo: f.customers,
		LeadRepo:     f.leads,
		Notifier:     newTestNotifier(f.notify, nil),
	})
	return f
}

func TestCustomerService_Create_Notifies(t *testing.T) {
	f := newCustomerFixture(t)

	req := &model.CreateCustomerRequest{Name: "Ada", Email: "ada@example.com"}
	f.customers.EXPECT().Create(gomock.Any(), "owner-1", req).
		Return(&model.Customer{ID: "cust-1", Name: "Ada"}, nil)

	customer, err := f.svc.Create(context.Background(), "owner-1", req)

	require.NoError(t, err)
	assert.Equal(t, "cust-1", customer.ID)
	pushed := f.notify.Pushed("owner-1")
	require.Len(t, pushed, 1)
	assert.Equal(t, "Customer added.", pushed[0].Text)
}

func TestCustomerService_PromoteLead(t *testing.T) {
	f := newCustomerFixture(t)

	f.leads.EXPECT().GetByID(gomock.Any(), "owner-1", "lead-1").Return(&model.Lead{
		ID:    "lead-1",
		Name:  "Ada",
		Email: "ada@example.com",
		Phone: "0801",
	}, nil)

	var createReq *model.CreateCustomerRequest
	f.customers.EXPECT().Create(gomock.Any(), "owner-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, req *model.CreateCustomerRequest) (*model.Customer, error) {
			createReq = req
			return &model.Customer{ID: "cust-1", Name: req.Name}, nil
		})

	var updateReq model.UpdateLeadRequest
	f.leads.EXPECT().Update(gomock.Any(), "owner-1", "lead-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, req model.UpdateLeadRequest) (*model.Lead, error) {
			updateReq = req
			return &model.Lead{ID: "lead-1", Status: model.LeadStatusQualified}, nil
		})

	customer, err := f.svc.PromoteLead(context.Background(), "owner-1", "lead-1")

	require.NoError(t, err)
	assert.Equal(t, "cust-1", customer.ID)

	// The customer inherits the lead's contact details and keeps a trace.
	require.NotNil(t, createReq)
	assert.Equal(t, "Ada", createReq.Name)
	assert.Equal(t, "ada@example.com", createReq.Email)
	assert.Equal(t, "0801", createReq.Phone)
	assert.Contains(t, createReq.Notes, "lead-1")

	// The lead is marked qualified, not deleted.
	require.NotNil(t, updateReq.Status)
	assert.Equal(t, model.LeadStatusQualified, *updateReq.Status)

	pushed := f.notify.Pushed("owner-1")
	require.Len(t, pushed, 1)
	assert.Equal(t, "Lead promoted to customer.", pushed[0].Text)
}

func TestCustomerService_PromoteLead_MissingLead(t *testing.T) {
	f := newCustomerFixture(t)

	f.leads.EXPECT().GetByID(gomock.Any(), "owner-1", "missing").
		Return(nil, data.ErrLeadNotFound)

	customer, err := f.svc.PromoteLead(context.Background(), "owner-1", "missing")

	assert.Nil(t, customer)
	assert.ErrorIs(t, err, data.ErrLeadNotFound)
	assert.Empty(t, f.notify.Pushed("owner-1"))
}

func TestCustomerService_PromoteLead_ToleratesLeadVanishing(t *testing.T) {
	f := newCustomerFixture(t)

	f.leads.EXPECT().GetByID(gomock.Any(), "owner-1", "lead-1").
		Return(&model.Lead{ID: "lead-1", Name: "Ada", Email: "ada@example.com"}, nil)
	f.customers.EXPECT().Create(gomock.Any(), "owner-1", gomock.Any()).
		Return(&model.Customer{ID: "cust-1"}, nil)
	// The lead was deleted between read and update; promotion still succeeds.
	f.leads.EXPECT().Update(gomock.Any(), "owner-1", "lead-1", gomock.Any()).
		Return(nil, data.ErrLeadNotFound)

	customer, err := f.svc.PromoteLead(context.Background(), "owner-1", "lead-1")

	require.NoError(t, err)
	assert.Equal(t, "cust-1", customer.ID)
}

func TestCustomerService_PromoteLead_CreateFailure(t *testing.T) {
	f := newCustomerFixture(t)

	f.leads.EXPECT().GetByID(gomock.Any(), "owner-1", "lead-1").
		Return(&model.Lead{ID: "lead-1", Name: "Ada", Email: "ada@example.com"}, nil)
	f.customers.EXPECT().Create(gomock.Any(), "owner-1", gomock.Any()).
		Return(nil, errors.New("insert failed"))

	customer, err := f.svc.PromoteLead(context.Background(), "owner-1", "lead-1")

	require.Error(t, err)
	assert.Nil(t, customer)
	assert.Contains(t, err.Error(), "promote lead")
	assert.Empty(t, f.notify.Pushed("owner-1"))
}

func TestCustomerService_List_NormalizesPaging(t *testing.T) {
	f := newCustomerFixture(t)

	f.customers.EXPECT().List(gomock.Any(), "owner-1", 50, 0).Return([]*model.Customer{}, nil)

	_, err := f.svc.List(context.Background(), "owner-1", 0, -3)

	require.NoError(t, err)
}
