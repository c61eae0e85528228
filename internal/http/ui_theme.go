package httpx

import (
	"net/http"

	"github.com/target/marketnest/internal/http/ui/theme"
)

// ToggleTheme flips the theme cookie. htmx callers get the new toggle and a
// themeChanged trigger; plain form posts are sent back where they came from.
// POST /theme/toggle.
func (h *UIHandlers) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	next := theme.FromRequest(r).Next()
	http.SetCookie(w, theme.Cookie(next, h.CookieDomain, isSecureRequest(r)))

	if !IsHTMX(r) {
		http.Redirect(w, r, safeRedirectPath(safeRedirectFromURL(r.Referer())), http.StatusSeeOther)
		return
	}
	SetHXTrigger(w, ThemeChangedEvent, map[string]string{"theme": next.String()})
	h.render(w, r, http.StatusOK, theme.Toggle(next))
}
