// Package header builds and renders the storefront header: site title, primary
// navigation, theme toggle and the auth slot.
//
// Build is a pure function from Input to Model. Render turns a Model into HTML.
// Component keeps the latest auth and route snapshots and re-renders on change.
package header

import (
	"time"

	domainauth "github.com/target/marketnest/internal/domain/auth"
	"github.com/target/marketnest/internal/domain/nav"
	"github.com/target/marketnest/internal/http/ui/theme"
)

// Auth action destinations.
const (
	SignUpPath = "/auth/sign-up"
	SignInPath = "/auth/sign-in"
)

// Paths of the header partials.
const (
	AuthPartialPath = "/header/auth"
	StreamPath      = "/header/stream"
	// LivePath serves the stream-connected header wrapper, used to reconnect
	// after something outside the auth state changes, like the theme.
	LivePath = "/header/live"
)

// DefaultRetryAfter delays the Loading slot's next lookup.
const DefaultRetryAfter = 3 * time.Second

// Variant selects the visual style of an auth action.
type Variant string

const (
	VariantPrimary Variant = "primary"
	// VariantLink is a text-style button.
	VariantLink Variant = "link"
)

// Action is one auth button.
type Action struct {
	Label   string
	Href    string
	Variant Variant
}

// AuthSlot is the right-hand auth area.
type AuthSlot struct {
	Kind domainauth.StateKind
	// Name is the label for signed-in users; empty otherwise.
	Name string
	// Actions is Sign Up then Sign In for signed-out visitors; empty otherwise.
	Actions []Action
	// RetryAfter is set only for Loading.
	RetryAfter time.Duration
}

// Input is everything the header depends on.
type Input struct {
	SiteTitle   string
	Items       []nav.Item
	Auth        domainauth.State
	CurrentPath string
	Theme       theme.Theme
	RetryAfter  time.Duration
}

// Model is the resolved header.
type Model struct {
	Home        nav.Item
	Links       []nav.Link
	Theme       theme.Theme
	Auth        AuthSlot
	CurrentPath string
}

// Build resolves in into a Model.
func Build(in Input) Model {
	return Model{
		Home:        nav.Item{Title: in.SiteTitle, URL: nav.HomePath},
		Links:       nav.Links(in.Items, in.CurrentPath),
		Theme:       in.Theme,
		Auth:        BuildAuthSlot(in.Auth, in.RetryAfter),
		CurrentPath: in.CurrentPath,
	}
}

// BuildAuthSlot maps an auth state to its slot.
func BuildAuthSlot(state domainauth.State, retryAfter time.Duration) AuthSlot {
	switch state.Kind() {
	case domainauth.StateAuthenticated:
		return AuthSlot{Kind: domainauth.StateAuthenticated, Name: state.Label()}
	case domainauth.StateUnauthenticated:
		return AuthSlot{
			Kind: domainauth.StateUnauthenticated,
			Actions: []Action{
				{Label: "Sign Up", Href: SignUpPath, Variant: VariantPrimary},
				{Label: "Sign In", Href: SignInPath, Variant: VariantLink},
			},
		}
	default:
		if retryAfter <= 0 {
			retryAfter = DefaultRetryAfter
		}
		return AuthSlot{Kind: domainauth.StateLoading, RetryAfter: retryAfter}
	}
}
