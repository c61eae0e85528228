// Package layout renders the storefront HTML document around page content.
package layout

import (
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/target/marketnest/internal/http/ui/header"
	"github.com/target/marketnest/internal/http/ui/viewmodel"
)

// Script sources for htmx and its SSE extension.
const (
	HTMXSrc    = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"
	HTMXSSESrc = "https://unpkg.com/htmx-ext-sse@2.2.2/sse.js"
)

// AssetURL maps a logical asset name to its served URL.
type AssetURL func(name string) string

// LiveHeaderID wraps the header and owns the SSE connection.
const LiveHeaderID = "header-live"

// Page renders a full document for l with main as the page body.
func Page(l *viewmodel.Layout, asset AssetURL, main g.Node) g.Node {
	if asset == nil {
		asset = func(name string) string { return "/static/" + name }
	}
	return html.Doctype(
		html.HTML(
			html.Lang("en"),
			html.Class("theme-"+l.Theme.String()),
			html.Data("theme", l.Theme.String()),
			html.Head(
				html.Meta(html.Charset("utf-8")),
				html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
				html.TitleEl(g.Text(l.DocumentTitle())),
				html.Meta(html.Name("csrf-token"), html.Content(l.CSRFToken)),
				html.Link(html.Rel("stylesheet"), html.Href(asset("css/app.css"))),
				html.Script(html.Src(HTMXSrc), html.Defer()),
				html.Script(html.Src(HTMXSSESrc), html.Defer()),
				html.Script(html.Src(asset("js/app.js")), html.Defer()),
			),
			html.Body(
				g.Attr("hx-boost", "true"),
				LiveHeader(l),
				html.Main(html.ID("content"), html.Class("page"), main),
				footer(l),
			),
		),
	)
}

// SignOutPath receives the footer's sign-out form.
const SignOutPath = "/auth/sign-out"

// The sign-out form is always rendered. The stylesheet shows it while the live
// header's data-auth is "authenticated", so it follows SSE auth changes without a
// page load.
func footer(l *viewmodel.Layout) g.Node {
	return html.Footer(
		html.Class("site-footer"),
		html.Span(g.Text("© "+l.SiteTitle)),
		html.Form(
			html.Class("sign-out"),
			html.Method("post"),
			html.Action(SignOutPath),
			html.Input(html.Type("hidden"), html.Name("csrf_token"), html.Value(l.CSRFToken)),
			html.Input(html.Type("hidden"), html.Name("next"), html.Value(l.CurrentPath)),
			html.Button(html.Type("submit"), html.Class("btn btn-link"), g.Text("Sign out")),
		),
	)
}

// LiveHeader renders the header, wrapped in the SSE connection when l.Live is set.
func LiveHeader(l *viewmodel.Layout) g.Node {
	if !l.Live {
		return html.Div(html.ID(LiveHeaderID), header.Render(l.Header))
	}
	return html.Div(
		html.ID(LiveHeaderID),
		g.Attr("hx-ext", "sse"),
		g.Attr("sse-connect", header.StreamURL(l.CurrentPath)),
		g.Attr("sse-swap", "header"),
		g.Attr("hx-swap", "innerHTML"),
		header.Render(l.Header),
	)
}
