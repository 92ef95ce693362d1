package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/lindasales/salespro/internal/domain/auth"
)

func TestSessionContextRoundTrip(t *testing.T) {
	sess := &domainauth.Session{ID: "sess-1", UserID: "user-1", Email: "linda@example.com"}

	ctx := SetSessionInContext(context.Background(), sess)

	got, ok := GetUserSessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, sess, got)
	assert.Equal(t, sess, GetSessionFromContext(ctx))
}

func TestSessionContext_NilSession(t *testing.T) {
	base := context.Background()

	ctx := SetSessionInContext(base, nil)
	assert.Equal(t, base, ctx)

	got, ok := GetUserSessionFromContext(ctx)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Nil(t, GetSessionFromContext(ctx))
}
