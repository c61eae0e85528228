// Package theme owns the light/dark preference and its toggle control.
package theme

import (
	"net/http"
	"time"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// Theme is the visual mode of the storefront.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// CookieName stores the preference.
const CookieName = "theme"

// TogglePath receives the toggle POST.
const TogglePath = "/theme/toggle"

// ToggleID is the DOM id swapped by the toggle response.
const ToggleID = "theme-toggle"

const cookieMaxAge = 365 * 24 * time.Hour

// Parse returns the theme named by s, or Light for anything unknown.
func Parse(s string) Theme {
	if Theme(s) == Dark {
		return Dark
	}
	return Light
}

// FromRequest reads the theme cookie; a missing cookie is Light.
func FromRequest(r *http.Request) Theme {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return Light
	}
	return Parse(c.Value)
}

// Next returns the other theme.
func (t Theme) Next() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// String implements fmt.Stringer.
func (t Theme) String() string { return string(Parse(string(t))) }

// Cookie builds the preference cookie for t.
func Cookie(t Theme, domain string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    t.String(),
		Path:     "/",
		Domain:   domain,
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Toggle renders the button that flips the theme. The response to the POST
// replaces the button and updates the document class through HX-Trigger.
func Toggle(t Theme) g.Node {
	next := t.Next()
	label := "Switch to " + next.String() + " theme"
	icon := "☾"
	if t == Dark {
		icon = "☀"
	}
	return html.Button(
		html.ID(ToggleID),
		html.Type("button"),
		html.Class("theme-toggle"),
		g.Attr("hx-post", TogglePath),
		g.Attr("hx-swap", "outerHTML"),
		html.Aria("label", label),
		html.Title(label),
		html.Data("theme", t.String()),
		html.Span(html.Aria("hidden", "true"), g.Text(icon)),
	)
}
