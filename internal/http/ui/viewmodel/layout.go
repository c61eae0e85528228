// Package viewmodel holds the data shared by every storefront page.
package viewmodel

import (
	"github.com/target/marketnest/internal/http/ui/header"
	"github.com/target/marketnest/internal/http/ui/theme"
)

// Layout captures shared chrome metadata: titles, theme, CSRF token and the header.
type Layout struct {
	// Title is the document title.
	Title       string
	SiteTitle   string
	CurrentPath string
	CSRFToken   string
	Theme       theme.Theme
	Header      header.Model
	// Live connects the header to its event stream.
	Live bool
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}

// LayoutData implements LayoutProvider.
func (l *Layout) LayoutData() *Layout { return l }

// DocumentTitle joins the page and site titles.
func (l *Layout) DocumentTitle() string {
	switch {
	case l.Title == "":
		return l.SiteTitle
	case l.SiteTitle == "" || l.Title == l.SiteTitle:
		return l.Title
	default:
		return l.Title + " · " + l.SiteTitle
	}
}
