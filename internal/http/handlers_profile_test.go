package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lindasales/salespro/internal/data"
	"github.com/lindasales/salespro/internal/domain/model"
	"github.com/lindasales/salespro/internal/mocks"
	"github.com/lindasales/salespro/internal/service"
)

func newProfileHandlers(t *testing.T) (*ProfileHandlers, *mocks.MockProfileRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProfileRepository(ctrl)
	notifier := service.NewNotificationService(service.NotificationServiceOptions{Store: &nullNotifyStore{}})
	watcher := service.NewSessionWatcher(service.SessionWatcherOptions{Profiles: repo, Notifier: notifier})
	return &ProfileHandlers{Watcher: watcher, Profiles: repo}, repo
}

func TestProfileGetFallsBackToRepository(t *testing.T) {
	h, repo := newProfileHandlers(t)

	repo.EXPECT().Get(gomock.Any(), "user-1").Return(&model.Profile{
		ID:        "user-1",
		Username:  "Linda",
		Email:     "linda@example.com",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}, nil)

	req := withTestSession(httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	rr := httptest.NewRecorder()
	h.Get(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"linda@example.com"`)
}

func TestProfileGetNotFound(t *testing.T) {
	h, repo := newProfileHandlers(t)

	repo.EXPECT().Get(gomock.Any(), "user-1").Return(nil, data.ErrProfileNotFound)

	req := withTestSession(httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	rr := httptest.NewRecorder()
	h.Get(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "profile_not_found")
}

func TestProfileGetRequiresSession(t *testing.T) {
	h, _ := newProfileHandlers(t)

	rr := httptest.NewRecorder()
	h.Get(rr, httptest.NewRequest(http.MethodGet, "/api/profile", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
