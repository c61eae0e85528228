package auth

import (
	"fmt"
	"strings"
)

// FallbackDisplayName is shown for signed-in users without a usable name.
const FallbackDisplayName = "User"

// StateKind tags the variant held by a State.
type StateKind uint8

const (
	// StateLoading means the session has not been resolved yet.
	// It is the zero value so an unset State never reads as "signed out".
	StateLoading StateKind = iota
	// StateAuthenticated means a valid session exists.
	StateAuthenticated
	// StateUnauthenticated means the visitor has no valid session.
	StateUnauthenticated
)

// String implements fmt.Stringer.
func (k StateKind) String() string {
	switch k {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// State is the tri-state view of session resolution consumed by the header.
// Only the Authenticated variant carries a display name.
type State struct {
	kind        StateKind
	displayName string
}

// LoadingState returns the unresolved state.
func LoadingState() State { return State{kind: StateLoading} }

// UnauthenticatedState returns the resolved, signed-out state.
func UnauthenticatedState() State { return State{kind: StateUnauthenticated} }

// AuthenticatedAs returns the resolved, signed-in state for displayName.
// An empty name is kept as-is; Label applies the fallback.
func AuthenticatedAs(displayName string) State {
	return State{kind: StateAuthenticated, displayName: strings.TrimSpace(displayName)}
}

// StateFromSession maps an optional session to a resolved state.
func StateFromSession(s *Session) State {
	if s == nil {
		return UnauthenticatedState()
	}
	return AuthenticatedAs(s.DisplayName)
}

// Kind returns the variant tag.
func (s State) Kind() StateKind { return s.kind }

// IsLoading reports whether the state is unresolved.
func (s State) IsLoading() bool { return s.kind == StateLoading }

// IsAuthenticated reports whether the state is signed in.
func (s State) IsAuthenticated() bool { return s.kind == StateAuthenticated }

// DisplayName returns the raw display name and whether the state carries one.
func (s State) DisplayName() (string, bool) {
	if s.kind != StateAuthenticated || s.displayName == "" {
		return "", false
	}
	return s.displayName, true
}

// Label is the text shown for a signed-in user. Empty for other kinds.
func (s State) Label() string {
	if s.kind != StateAuthenticated {
		return ""
	}
	if name, ok := s.DisplayName(); ok {
		return name
	}
	return FallbackDisplayName
}

// Equal reports whether two states would render identically.
func (s State) Equal(other State) bool {
	return s.kind == other.kind && s.displayName == other.displayName
}

// String implements fmt.Stringer.
func (s State) String() string {
	if s.kind == StateAuthenticated {
		return s.kind.String() + "(" + s.Label() + ")"
	}
	return s.kind.String()
}
