// Package marketnest provides embedded assets for production builds.
package marketnest

import (
	"embed"
	"io/fs"
)

// In dev mode (IsDev=true), assets are loaded from disk for hot reloading.
// In production mode (IsDev=false), assets are served from this embedded filesystem.

//go:embed all:web/static
var staticFS embed.FS

// StaticDir is the on-disk location of the static assets, relative to the module root.
const StaticDir = "web/static"

// StaticFS returns the embedded static files rooted at web/static.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, StaticDir)
	if err != nil {
		panic(err)
	}
	return sub
}
