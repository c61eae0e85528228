// Package pages holds the static storefront page bodies.
package pages

import (
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/target/marketnest/internal/domain/nav"
)

// Page is a routable storefront page.
type Page struct {
	Path  string
	Title string
	Body  func(siteTitle string) g.Node
}

// All returns one Page per default navigation item, in navigation order.
func All() []Page {
	items := nav.DefaultItems()
	out := make([]Page, 0, len(items))
	for _, it := range items {
		out = append(out, Page{Path: it.URL, Title: it.Title, Body: bodies[it.URL]})
	}
	return out
}

var bodies = map[string]func(string) g.Node{
	"/": func(site string) g.Node {
		return g.Group{
			html.H1(g.Text("Welcome to " + site)),
			html.P(g.Text("Independent makers, one marketplace. Browse the shop or sign up to start selling.")),
			html.A(html.Class("btn btn-primary"), html.Href("/shop"), g.Text("Start shopping")),
		}
	},
	"/about": func(site string) g.Node {
		return g.Group{
			html.H1(g.Text("About " + site)),
			html.P(g.Text(site + " connects small sellers with shoppers who care where things come from.")),
		}
	},
	"/shop": func(string) g.Node {
		return g.Group{
			html.H1(g.Text("Shop")),
			html.P(g.Text("New listings arrive every week.")),
		}
	},
	"/contact": func(string) g.Node {
		return g.Group{
			html.H1(g.Text("Contact")),
			html.P(g.Text("Questions about an order? Write to "), html.A(html.Href("mailto:help@marketnest.example"), g.Text("help@marketnest.example")), g.Text(".")),
		}
	},
}

// NotFound is the body for unknown paths.
func NotFound() g.Node {
	return g.Group{
		html.H1(g.Text("Page not found")),
		html.P(html.A(html.Href(nav.HomePath), g.Text("Back to the storefront"))),
	}
}
