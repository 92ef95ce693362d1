package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lindasales/salespro/internal/data"
	"github.com/lindasales/salespro/internal/domain/model"
	gomocks "github.com/lindasales/salespro/internal/mocks"
)

func TestAppointmentService_Create_Notifies(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := gomocks.NewMockAppointmentRepository(ctrl)
	store := newMemNotifyStore()
	svc := NewAppointmentService(AppointmentServiceOptions{
		AppointmentRepo: repo,
		Notifier:        newTestNotifier(store, nil),
	})

	req := &model.CreateAppointmentRequest{
		Title:    "Demo call",
		With:     "ada@example.com",
		StartsAt: time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
	}
	repo.EXPECT().Create(gomock.Any(), "owner-1", req).
		Return(&model.Appointment{ID: "appt-1", Title: req.Title}, nil)

	appt, err := svc.Create(context.Background(), "owner-1", req)

	require.NoError(t, err)
	assert.Equal(t, "appt-1", appt.ID)
	pushed := store.Pushed("owner-1")
	require.Len(t, pushed, 1)
	assert.Equal(t, "Appointment scheduled.", pushed[0].Text)
}

func TestAppointmentService_ListUpcoming_ZeroFromMeansNow(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := gomocks.NewMockAppointmentRepository(ctrl)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewAppointmentService(AppointmentServiceOptions{
		AppointmentRepo: repo,
		Notifier:        newTestNotifier(newMemNotifyStore(), nil),
		TimeProvider:    data.NewFixedTimeProvider(now),
	})

	repo.EXPECT().ListUpcoming(gomock.Any(), "owner-1", now, 10).
		Return([]*model.Appointment{}, nil)

	_, err := svc.ListUpcoming(context.Background(), "owner-1", time.Time{}, 10)

	require.NoError(t, err)
}

func TestAppointmentService_ListUpcoming_ExplicitFrom(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := gomocks.NewMockAppointmentRepository(ctrl)
	svc := NewAppointmentService(AppointmentServiceOptions{
		AppointmentRepo: repo,
		Notifier:        newTestNotifier(newMemNotifyStore(), nil),
	})

	from := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	repo.EXPECT().ListUpcoming(gomock.Any(), "owner-1", from, 5).
		Return([]*model.Appointment{}, nil)

	_, err := svc.ListUpcoming(context.Background(), "owner-1", from, 5)

	require.NoError(t, err)
}

func TestAppointmentService_Delete_NotifiesOnlyWhenCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := gomocks.NewMockAppointmentRepository(ctrl)
	store := newMemNotifyStore()
	svc := NewAppointmentService(AppointmentServiceOptions{
		AppointmentRepo: repo,
		Notifier:        newTestNotifier(store, nil),
	})
	ctx := context.Background()

	repo.EXPECT().Delete(gomock.Any(), "owner-1", "appt-1").Return(true, nil)
	ok, err := svc.Delete(ctx, "owner-1", "appt-1")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, store.Pushed("owner-1"), 1)
	assert.Equal(t, "Appointment cancelled.", store.Pushed("owner-1")[0].Text)

	repo.EXPECT().Delete(gomock.Any(), "owner-1", "missing").Return(false, nil)
	ok, err = svc.Delete(ctx, "owner-1", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, store.Pushed("owner-1"), 1)
}
