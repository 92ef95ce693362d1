package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lindasales/salespro/internal/domain/model"
	gomocks "github.com/lindasales/salespro/internal/mocks"
)

func TestOfferService_Create_Notifies(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := gomocks.NewMockOfferRepository(ctrl)
	store := newMemNotifyStore()
	svc := NewOfferService(OfferServiceOptions{OfferRepo: repo, Notifier: newTestNotifier(store, nil)})

	req := &model.CreateOfferRequest{Title: "Data Analytics Training", PriceCents: 15000000}
	repo.EXPECT().Create(gomock.Any(), "owner-1", req).
		Return(&model.Offer{ID: "offer-1", Title: req.Title, PriceCents: req.PriceCents, Currency: "NGN"}, nil)

	offer, err := svc.Create(context.Background(), "owner-1", req)

	require.NoError(t, err)
	assert.Equal(t, "offer-1", offer.ID)
	assert.Equal(t, "NGN", offer.Currency)
	pushed := store.Pushed("owner-1")
	require.Len(t, pushed, 1)
	assert.Equal(t, "Offer published.", pushed[0].Text)
}

func TestOfferService_Create_ErrorSkipsNotification(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := gomocks.NewMockOfferRepository(ctrl)
	store := newMemNotifyStore()
	svc := NewOfferService(OfferServiceOptions{OfferRepo: repo, Notifier: newTestNotifier(store, nil)})

	repo.EXPECT().Create(gomock.Any(), "owner-1", gomock.Any()).
		Return(nil, errors.New("insert failed"))

	offer, err := svc.Create(context.Background(), "owner-1", &model.CreateOfferRequest{Title: "x"})

	require.Error(t, err)
	assert.Nil(t, offer)
	assert.Empty(t, store.Pushed("owner-1"))
}

func TestOfferService_List_NormalizesPaging(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := gomocks.NewMockOfferRepository(ctrl)
	svc := NewOfferService(OfferServiceOptions{OfferRepo: repo, Notifier: newTestNotifier(newMemNotifyStore(), nil)})

	repo.EXPECT().List(gomock.Any(), "owner-1", 50, 0).Return([]*model.Offer{}, nil)

	_, err := svc.List(context.Background(), "owner-1", -1, -1)

	require.NoError(t, err)
}
