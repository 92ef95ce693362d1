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

func TestLeadService_Create_Notifies(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := gomocks.NewMockLeadRepository(ctrl)
	store := newMemNotifyStore()
	svc := NewLeadService(LeadServiceOptions{LeadRepo: repo, Notifier: newTestNotifier(store, nil)})

	req := &model.CreateLeadRequest{Name: "Ada", Email: "ada@example.com"}
	repo.EXPECT().Create(gomock.Any(), "owner-1", req).
		Return(&model.Lead{ID: "lead-1", OwnerID: "owner-1", Name: "Ada"}, nil)

	lead, err := svc.Create(context.Background(), "owner-1", req)

	require.NoError(t, err)
	assert.Equal(t, "lead-1", lead.ID)
	pushed := store.Pushed("owner-1")
	require.Len(t, pushed, 1)
	assert.Equal(t, "Lead added.", pushed[0].Text)
}

func TestLeadService_Create_ErrorSkipsNotification(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := gomocks.NewMockLeadRepository(ctrl)
	store := newMemNotifyStore()
	svc := NewLeadService(LeadServiceOptions{LeadRepo: repo, Notifier: newTestNotifier(store, nil)})

	repo.EXPECT().Create(gomock.Any(), "owner-1", gomock.Any()).
		Return(nil, errors.New("insert failed"))

	lead, err := svc.Create(context.Background(), "owner-1", &model.CreateLeadRequest{Name: "Ada"})

	require.Error(t, err)
	assert.Nil(t, lead)
	assert.Empty(t, store.Pushed("owner-1"))
}

func TestLeadService_List_NormalizesOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := gomocks.NewMockLeadRepository(ctrl)
	svc := NewLeadService(LeadServiceOptions{LeadRepo: repo, Notifier: newTestNotifier(newMemNotifyStore(), nil)})

	repo.EXPECT().List(gomock.Any(), "owner-1", model.LeadsListOptions{Limit: 50, Offset: 0}).
		Return([]*model.Lead{}, nil)

	_, err := svc.List(context.Background(), "owner-1", model.LeadsListOptions{Limit: 0, Offset: -5})

	require.NoError(t, err)
}

func TestLeadService_Delete_NotifiesOnlyWhenRemoved(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := gomocks.NewMockLeadRepository(ctrl)
	store := newMemNotifyStore()
	svc := NewLeadService(LeadServiceOptions{LeadRepo: repo, Notifier: newTestNotifier(store, nil)})
	ctx := context.Background()

	repo.EXPECT().Delete(gomock.Any(), "owner-1", "lead-1").Return(true, nil)
	ok, err := svc.Delete(ctx, "owner-1", "lead-1")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, store.Pushed("owner-1"), 1)
	assert.Equal(t, "Lead deleted.", store.Pushed("owner-1")[0].Text)

	// A miss deletes nothing and stays silent.
	repo.EXPECT().Delete(gomock.Any(), "owner-1", "missing").Return(false, nil)
	ok, err = svc.Delete(ctx, "owner-1", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, store.Pushed("owner-1"), 1)
}

func TestLeadService_GetByID_PassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := gomocks.NewMockLeadRepository(ctrl)
	svc := NewLeadService(LeadServiceOptions{LeadRepo: repo, Notifier: newTestNotifier(newMemNotifyStore(), nil)})

	repo.EXPECT().GetByID(gomock.Any(), "owner-1", "missing").Return(nil, data.ErrLeadNotFound)

	lead, err := svc.GetByID(context.Background(), "owner-1", "missing")

	assert.Nil(t, lead)
	assert.ErrorIs(t, err, data.ErrLeadNotFound)
}
