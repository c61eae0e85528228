package httpx

import (
	"net/http"

	g "maragu.dev/gomponents"

	"github.com/target/marketnest/internal/http/ui/layout"
	"github.com/target/marketnest/internal/http/ui/pages"
)

// Page serves one storefront page. The current route is r.URL.Path.
func (h *UIHandlers) Page(p pages.Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.servePage(w, r, http.StatusOK, p.Title, p.Body(h.SiteTitle))
	}
}

// NotFound serves unknown paths with the header and no active link.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, http.StatusNotFound, "Page not found", pages.NotFound())
}

func (h *UIHandlers) servePage(w http.ResponseWriter, r *http.Request, status int, title string, body g.Node) {
	l := h.layoutFor(r, title, r.URL.Path)
	h.render(w, r, status, layout.Page(l, h.Assets, body))
}
