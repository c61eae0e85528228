package devauth

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/marketnest/internal/ports"
)

func TestProvider_BeginAndExchange(t *testing.T) {
	prov, err := NewProvider(Config{
		UserID:      "dev-user",
		DisplayName: "Dev Shopper",
		Email:       "dev@example.com",
		Groups:      []string{"shoppers"},
	})
	require.NoError(t, err)

	authURL, state, nonce, err := prov.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(authURL, "/auth/callback?"), "unexpected authURL: %s", authURL)
	assert.NotEmpty(t, state)
	assert.NotEmpty(t, nonce)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, state, u.Query().Get("state"))
	assert.Equal(t, "dev", u.Query().Get("code"))

	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	require.NoError(t, err)
	assert.Equal(t, "dev-user", id.UserID)
	assert.Equal(t, "Dev Shopper", id.DisplayName())
	assert.Equal(t, []string{"shoppers"}, id.Groups)
}

func TestProvider_SignUpUsesSameCallback(t *testing.T) {
	prov, err := NewProvider(Config{UserID: "u", Email: "e@example.com", CallbackPath: "/cb"})
	require.NoError(t, err)

	authURL, _, _, err := prov.Begin(context.Background(), ports.BeginInput{RedirectURL: "/", Intent: ports.IntentSignUp})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(authURL, "/cb?"))
}

func TestProvider_ExchangeRefreshesExpiry(t *testing.T) {
	prov, err := NewProvider(Config{UserID: "u", Email: "e@example.com", SessionDuration: time.Hour})
	require.NoError(t, err)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	prov.now = func() time.Time { return base }

	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{})
	require.NoError(t, err)
	assert.Equal(t, base.Add(time.Hour), id.ExpiresAt)
}

func TestNewProvider_Validation(t *testing.T) {
	_, err := NewProvider(Config{Email: "e@example.com"})
	assert.Error(t, err)
	_, err = NewProvider(Config{UserID: "u"})
	assert.Error(t, err)
}

func TestRandomString_Length(t *testing.T) {
	for _, n := range []int{0, 1, 7, 24, 33} {
		s, err := randomString(n)
		require.NoError(t, err)
		assert.Len(t, s, n)
	}
}
