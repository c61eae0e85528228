package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/target/marketnest/internal/domain/auth"
)

func TestSessionContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, SetSessionInContext(ctx, nil))

	_, ok := GetUserSessionFromContext(ctx)
	assert.False(t, ok)

	sess := &domainauth.Session{ID: "s1", DisplayName: "Ada"}
	got, ok := GetUserSessionFromContext(SetSessionInContext(ctx, sess))
	assert.True(t, ok)
	assert.Same(t, sess, got)
}

func TestClientIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ClientIDFromContext(ctx))
	assert.Equal(t, ctx, SetClientIDInContext(ctx, ""))
	assert.Equal(t, "c1", ClientIDFromContext(SetClientIDInContext(ctx, "c1")))
}
