package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_ZeroValueIsLoading(t *testing.T) {
	var s State
	assert.True(t, s.IsLoading())
	assert.Equal(t, StateLoading, s.Kind())
	assert.Empty(t, s.Label())
	_, ok := s.DisplayName()
	assert.False(t, ok)
}

func TestState_Label(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  string
	}{
		{name: "named user", state: AuthenticatedAs("Jane Doe"), want: "Jane Doe"},
		{name: "empty name falls back", state: AuthenticatedAs(""), want: FallbackDisplayName},
		{name: "blank name falls back", state: AuthenticatedAs("   "), want: FallbackDisplayName},
		{name: "signed out has no label", state: UnauthenticatedState(), want: ""},
		{name: "loading has no label", state: LoadingState(), want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Label())
		})
	}
}

func TestStateFromSession(t *testing.T) {
	assert.Equal(t, StateUnauthenticated, StateFromSession(nil).Kind())

	s := StateFromSession(&Session{DisplayName: "Ada"})
	assert.True(t, s.IsAuthenticated())
	name, ok := s.DisplayName()
	assert.True(t, ok)
	assert.Equal(t, "Ada", name)
}

func TestState_Equal(t *testing.T) {
	assert.True(t, AuthenticatedAs("a").Equal(AuthenticatedAs("a")))
	assert.False(t, AuthenticatedAs("a").Equal(AuthenticatedAs("b")))
	assert.False(t, LoadingState().Equal(UnauthenticatedState()))
	assert.True(t, LoadingState().Equal(State{}))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "loading", LoadingState().String())
	assert.Equal(t, "unauthenticated", UnauthenticatedState().String())
	assert.Equal(t, "authenticated(User)", AuthenticatedAs("").String())
	assert.Equal(t, "unknown(9)", StateKind(9).String())
}
