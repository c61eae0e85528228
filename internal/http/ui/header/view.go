package header

import (
	"net/url"
	"strconv"
	"time"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	domainauth "github.com/target/marketnest/internal/domain/auth"
	"github.com/target/marketnest/internal/domain/nav"
	"github.com/target/marketnest/internal/http/ui/theme"
)

// DOM ids targeted by partial swaps.
const (
	HeaderID   = "site-header"
	AuthSlotID = "header-auth"
)

// Render returns the header element for m.
func Render(m Model) g.Node {
	return html.Header(
		html.ID(HeaderID),
		html.Class("site-header"),
		html.Data("auth", m.Auth.Kind.String()),
		html.A(
			html.Class("site-title"),
			html.Href(m.Home.URL),
			g.Text(m.Home.Title),
		),
		html.Nav(
			html.Class("site-nav"),
			html.Aria("label", "Main"),
			html.Ul(
				g.Map(m.Links, navLink),
			),
		),
		html.Div(
			html.Class("header-actions"),
			theme.Toggle(m.Theme),
			RenderAuthSlot(m.Auth, m.CurrentPath),
		),
	)
}

func navLink(l nav.Link) g.Node {
	class := "nav-link"
	if l.Active {
		class = "nav-link nav-link-active"
	}
	return html.Li(
		html.A(
			html.Class(class),
			html.Href(l.URL),
			g.If(l.Active, html.Aria("current", "page")),
			g.Text(l.Title),
		),
	)
}

// RenderAuthSlot returns the auth area alone. It is also the body of the
// auth partial, which swaps it in place.
func RenderAuthSlot(slot AuthSlot, currentPath string) g.Node {
	switch slot.Kind {
	case domainauth.StateAuthenticated:
		return html.Div(
			html.ID(AuthSlotID),
			html.Class("auth-slot"),
			html.Span(html.Class("user-name"), g.Text(slot.Name)),
		)
	case domainauth.StateUnauthenticated:
		return html.Div(
			html.ID(AuthSlotID),
			html.Class("auth-slot"),
			g.Map(slot.Actions, func(a Action) g.Node { return actionLink(a, currentPath) }),
		)
	default:
		// Loading: an empty container that fetches the resolved slot.
		return html.Div(
			html.ID(AuthSlotID),
			html.Class("auth-slot auth-slot-loading"),
			html.Aria("busy", "true"),
			g.Attr("hx-get", AuthPartialURL(currentPath)),
			g.Attr("hx-trigger", "load delay:"+formatDelay(slot.RetryAfter)),
			g.Attr("hx-swap", "outerHTML"),
		)
	}
}

func actionLink(a Action, currentPath string) g.Node {
	href := a.Href
	if currentPath != "" {
		href += "?" + url.Values{"next": {currentPath}}.Encode()
	}
	return html.A(
		html.Class("btn btn-"+string(a.Variant)),
		html.Href(href),
		// Leaves the page for the identity provider.
		g.Attr("hx-boost", "false"),
		g.Text(a.Label),
	)
}

// AuthPartialURL is the auth partial for currentPath.
func AuthPartialURL(currentPath string) string {
	return AuthPartialPath + "?" + url.Values{"path": {currentPath}}.Encode()
}

// StreamURL is the header event stream for currentPath.
func StreamURL(currentPath string) string {
	return StreamPath + "?" + url.Values{"path": {currentPath}}.Encode()
}

// LiveURL is the live header wrapper for currentPath.
func LiveURL(currentPath string) string {
	return LivePath + "?" + url.Values{"path": {currentPath}}.Encode()
}

// formatDelay renders d in htmx timing syntax.
func formatDelay(d time.Duration) string {
	if d%time.Second == 0 {
		return strconv.FormatInt(int64(d/time.Second), 10) + "s"
	}
	return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
}
