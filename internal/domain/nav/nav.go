// Package nav defines the storefront navigation model.
package nav

// Item is one navigation link: a label and its destination path.
type Item struct {
	Title string
	URL   string
}

// Link is an Item resolved against the current route.
type Link struct {
	Item
	Active bool
}

// HomePath is the destination of the site title link.
const HomePath = "/"

var defaultItems = [...]Item{
	{Title: "Home", URL: "/"},
	{Title: "About", URL: "/about"},
	{Title: "Shop", URL: "/shop"},
	{Title: "Contact", URL: "/contact"},
}

// DefaultItems returns the storefront navigation in display order.
// Each call returns a fresh slice.
func DefaultItems() []Item {
	items := make([]Item, len(defaultItems))
	copy(items, defaultItems[:])
	return items
}

// IsActive reports whether item is the current route. Exact equality only.
func IsActive(item Item, currentPath string) bool {
	return item.URL == currentPath
}

// Links resolves items against currentPath, preserving order.
func Links(items []Item, currentPath string) []Link {
	links := make([]Link, 0, len(items))
	for _, it := range items {
		links = append(links, Link{Item: it, Active: IsActive(it, currentPath)})
	}
	return links
}
