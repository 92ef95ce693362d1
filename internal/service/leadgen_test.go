package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lindasales/salespro/internal/domain/model"
	gomocks "github.com/lindasales/salespro/internal/mocks"
)

func newLeadGenFixture(t *testing.T, mapping CaptureMapping) (*LeadGenService, *gomocks.MockLeadRepository, *memNotifyStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := gomocks.NewMockLeadRepository(ctrl)
	store := newMemNotifyStore()
	svc, err := NewLeadGenService(LeadGenServiceOptions{
		LeadRepo: repo,
		Mapping:  mapping,
		Notifier: newTestNotifier(store, nil),
	})
	require.NoError(t, err)
	return svc, repo, store
}

func TestNewLeadGenService_InvalidExpression(t *testing.T) {
	svc, err := NewLeadGenService(LeadGenServiceOptions{
		Mapping: CaptureMapping{Name: "contact.["},
	})

	require.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "invalid name expression")
}

func TestLeadGenService_Capture_DefaultMapping(t *testing.T) {
	svc, repo, store := newLeadGenFixture(t, CaptureMapping{})

	var req *model.CreateLeadRequest
	repo.EXPECT().Create(gomock.Any(), "owner-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, r *model.CreateLeadRequest) (*model.Lead, error) {
			req = r
			return &model.Lead{ID: "lead-1", Name: r.Name}, nil
		})

	lead, err := svc.Capture(context.Background(), "owner-1", map[string]any{
		"name":   "  Ada Obi ",
		"email":  "ada@example.com",
		"phone":  "0801",
		"source": "instagram-form",
	})

	require.NoError(t, err)
	assert.Equal(t, "lead-1", lead.ID)
	assert.Equal(t, "Ada Obi", req.Name)
	assert.Equal(t, "ada@example.com", req.Email)
	assert.Equal(t, "0801", req.Phone)
	assert.Equal(t, "instagram-form", req.Source)

	pushed := store.Pushed("owner-1")
	require.Len(t, pushed, 1)
	assert.Equal(t, "New lead captured: Ada Obi", pushed[0].Text)
}

func TestLeadGenService_Capture_NestedMapping(t *testing.T) {
	svc, repo, _ := newLeadGenFixture(t, CaptureMapping{
		Name:   "contact.full_name",
		Email:  "contact.email",
		Phone:  "contact.phone",
		Source: "meta.source",
	})

	var req *model.CreateLeadRequest
	repo.EXPECT().Create(gomock.Any(), "owner-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, r *model.CreateLeadRequest) (*model.Lead, error) {
			req = r
			return &model.Lead{ID: "lead-1", Name: r.Name}, nil
		})

	_, err := svc.Capture(context.Background(), "owner-1", map[string]any{
		"contact": map[string]any{
			"full_name": "Femi Ade",
			"email":     "femi@example.com",
		},
		"meta": map[string]any{"source": "landing-page"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Femi Ade", req.Name)
	assert.Equal(t, "femi@example.com", req.Email)
	assert.Empty(t, req.Phone)
	assert.Equal(t, "landing-page", req.Source)
}

func TestLeadGenService_Capture_SourceDefaults(t *testing.T) {
	svc, repo, _ := newLeadGenFixture(t, CaptureMapping{})

	var req *model.CreateLeadRequest
	repo.EXPECT().Create(gomock.Any(), "owner-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, r *model.CreateLeadRequest) (*model.Lead, error) {
			req = r
			return &model.Lead{ID: "lead-1", Name: r.Name}, nil
		})

	_, err := svc.Capture(context.Background(), "owner-1", map[string]any{
		"name":  "Ada Obi",
		"email": "ada@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "lead-gen", req.Source)
}

func TestLeadGenService_Capture_NonStringValuesIgnored(t *testing.T) {
	svc, repo, _ := newLeadGenFixture(t, CaptureMapping{})

	var req *model.CreateLeadRequest
	repo.EXPECT().Create(gomock.Any(), "owner-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, r *model.CreateLeadRequest) (*model.Lead, error) {
			req = r
			return &model.Lead{ID: "lead-1"}, nil
		})

	_, err := svc.Capture(context.Background(), "owner-1", map[string]any{
		"name":  "Ada Obi",
		"email": "ada@example.com",
		"phone": 801234, // numeric phone is dropped, not coerced
	})

	require.NoError(t, err)
	assert.Empty(t, req.Phone)
}

func TestLeadGenService_Capture_NilPayload(t *testing.T) {
	svc, _, store := newLeadGenFixture(t, CaptureMapping{})

	lead, err := svc.Capture(context.Background(), "owner-1", nil)

	require.Error(t, err)
	assert.Nil(t, lead)
	assert.Empty(t, store.Pushed("owner-1"))
}
