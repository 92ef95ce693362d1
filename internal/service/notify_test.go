package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindasales/salespro/internal/core"
	"github.com/lindasales/salespro/internal/data"
)

// memNotifyStore is an in-memory core.NotificationStore shared by the service
// tests. It records every push so tests can assert exact counts.
type memNotifyStore struct {
	mu      sync.Mutex
	byUser  map[string][]core.Notification
	PushErr error
}

func newMemNotifyStore() *memNotifyStore {
	return &memNotifyStore{byUser: make(map[string][]core.Notification)}
}

func (m *memNotifyStore) Push(_ context.Context, userID string, n core.Notification) error {
	if m.PushErr != nil {
		return m.PushErr
	}
	m.mu.Lock()
	m.byUser[userID] = append(m.byUser[userID], n)
	m.mu.Unlock()
	return nil
}

func (m *memNotifyStore) Drain(_ context.Context, userID string) ([]core.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.byUser[userID]
	delete(m.byUser, userID)
	return out, nil
}

// Pushed returns a snapshot of everything pushed for the user without draining.
func (m *memNotifyStore) Pushed(userID string) []core.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Notification, len(m.byUser[userID]))
	copy(out, m.byUser[userID])
	return out
}

func newTestNotifier(store core.NotificationStore, tp data.TimeProvider) *NotificationService {
	return NewNotificationService(NotificationServiceOptions{
		Store:        store,
		TimeProvider: tp,
	})
}

func TestNotificationService_Push_Stores(t *testing.T) {
	store := newMemNotifyStore()
	svc := newTestNotifier(store, nil)
	ctx := context.Background()

	svc.Push(ctx, "user-1", NotifySuccess, "Lead added.")

	pushed := store.Pushed("user-1")
	require.Len(t, pushed, 1)
	assert.NotEmpty(t, pushed[0].ID)
	assert.Equal(t, NotifySuccess, pushed[0].Kind)
	assert.Equal(t, "Lead added.", pushed[0].Text)
	assert.False(t, pushed[0].CreatedAt.IsZero())
}

func TestNotificationService_Push_DedupesWithinWindow(t *testing.T) {
	store := newMemNotifyStore()
	tp := data.NewFixedTimeProvider(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestNotifier(store, tp)
	ctx := context.Background()

	svc.Push(ctx, "user-1", NotifyError, "Incorrect email or password.")
	svc.Push(ctx, "user-1", NotifyError, "Incorrect email or password.")

	assert.Len(t, store.Pushed("user-1"), 1)

	// Past the window the same message goes through again.
	tp.Advance(dedupeWindow)
	svc.Push(ctx, "user-1", NotifyError, "Incorrect email or password.")
	assert.Len(t, store.Pushed("user-1"), 2)
}

func TestNotificationService_Push_DistinctMessagesNotDeduped(t *testing.T) {
	store := newMemNotifyStore()
	tp := data.NewFixedTimeProvider(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestNotifier(store, tp)
	ctx := context.Background()

	svc.Push(ctx, "user-1", NotifyError, "first")
	svc.Push(ctx, "user-1", NotifyWarning, "first") // same text, different kind
	svc.Push(ctx, "user-1", NotifyError, "second")
	svc.Push(ctx, "user-2", NotifyError, "first") // same message, different user

	assert.Len(t, store.Pushed("user-1"), 3)
	assert.Len(t, store.Pushed("user-2"), 1)
}

func TestNotificationService_Push_IgnoresEmptyUserOrText(t *testing.T) {
	store := newMemNotifyStore()
	svc := newTestNotifier(store, nil)
	ctx := context.Background()

	svc.Push(ctx, "", NotifyInfo, "orphaned")
	svc.Push(ctx, "user-1", NotifyInfo, "")

	assert.Empty(t, store.Pushed(""))
	assert.Empty(t, store.Pushed("user-1"))
}

func TestNotificationService_Push_SwallowsStoreError(t *testing.T) {
	store := newMemNotifyStore()
	store.PushErr = errors.New("redis down")
	svc := newTestNotifier(store, nil)

	// Must not panic or surface the error; a lost toast never fails the action.
	svc.Push(context.Background(), "user-1", NotifyInfo, "hello")
}

func TestNotificationService_KindHelpers(t *testing.T) {
	store := newMemNotifyStore()
	svc := newTestNotifier(store, nil)
	ctx := context.Background()

	svc.Success(ctx, "user-1", "a")
	svc.Info(ctx, "user-1", "b")
	svc.Warning(ctx, "user-1", "c")
	svc.Error(ctx, "user-1", "d")

	pushed := store.Pushed("user-1")
	require.Len(t, pushed, 4)
	kinds := []string{pushed[0].Kind, pushed[1].Kind, pushed[2].Kind, pushed[3].Kind}
	assert.Equal(t, []string{NotifySuccess, NotifyInfo, NotifyWarning, NotifyError}, kinds)
}

func TestNotificationService_Pending_Drains(t *testing.T) {
	store := newMemNotifyStore()
	svc := newTestNotifier(store, nil)
	ctx := context.Background()

	svc.Info(ctx, "user-1", "pending one")
	svc.Info(ctx, "user-1", "pending two")

	got, err := svc.Pending(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Drained; a second call returns nothing.
	got, err = svc.Pending(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
