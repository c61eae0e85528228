package header

import (
	"errors"
	"sync"
	"time"

	domainauth "github.com/target/marketnest/internal/domain/auth"
	"github.com/target/marketnest/internal/domain/nav"
	"github.com/target/marketnest/internal/http/ui/theme"
	"github.com/target/marketnest/internal/observe"
)

// ErrAlreadyMounted is returned by Mount on a mounted Component.
var ErrAlreadyMounted = errors.New("header: component already mounted")

// ComponentOptions configures a Component.
type ComponentOptions struct {
	SiteTitle  string
	Items      []nav.Item
	Theme      theme.Theme
	RetryAfter time.Duration
	// OnRender receives every rendered model, in order. It must not call Unmount.
	OnRender func(Model)
}

// Component is a live header. While mounted it renders once on Mount and
// again whenever the auth state or the route changes. It keeps only the
// latest snapshot of each.
type Component struct {
	opts ComponentOptions

	mu         sync.Mutex
	auth       domainauth.State
	path       string
	mounted    bool
	generation uint64
	// rendered is the generation last passed to OnRender.
	rendered   uint64
	unsubAuth  func()
	unsubRoute func()

	// render serialises OnRender so each call sees the newest snapshot.
	render sync.Mutex
}

// NewComponent creates an unmounted Component.
func NewComponent(opts ComponentOptions) *Component {
	if opts.Items == nil {
		opts.Items = nav.DefaultItems()
	}
	return &Component{opts: opts}
}

// Mount subscribes to both observers and renders the initial header.
func (c *Component) Mount(auth observe.Observable[domainauth.State], route observe.Observable[string]) error {
	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return ErrAlreadyMounted
	}
	c.mounted = true
	c.generation++
	gen := c.generation
	c.auth = auth.Current()
	c.path = route.Current()
	c.mu.Unlock()

	// Subscribe delivers the current value at once; unchanged values are skipped.
	unsubAuth := auth.Subscribe(func(s domainauth.State) {
		c.update(gen, func() bool {
			if c.auth.Equal(s) {
				return false
			}
			c.auth = s
			return true
		})
	})
	unsubRoute := route.Subscribe(func(p string) {
		c.update(gen, func() bool {
			if c.path == p {
				return false
			}
			c.path = p
			return true
		})
	})

	c.mu.Lock()
	stale := c.generation != gen || !c.mounted
	if !stale {
		c.unsubAuth, c.unsubRoute = unsubAuth, unsubRoute
	}
	c.mu.Unlock()
	if stale {
		// Unmounted while subscribing.
		unsubAuth()
		unsubRoute()
		return nil
	}

	c.emit(gen, true)
	return nil
}

// Unmount severs both subscriptions. No render happens after it returns.
// Calling it on an unmounted Component is a no-op.
func (c *Component) Unmount() {
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return
	}
	c.mounted = false
	c.generation++
	unsubAuth, unsubRoute := c.unsubAuth, c.unsubRoute
	c.unsubAuth, c.unsubRoute = nil, nil
	c.mu.Unlock()

	if unsubAuth != nil {
		unsubAuth()
	}
	if unsubRoute != nil {
		unsubRoute()
	}
	// Wait out a render already in progress.
	c.render.Lock()
	defer c.render.Unlock()
}

// Mounted reports whether the component is mounted.
func (c *Component) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// Model returns the header for the latest snapshot.
func (c *Component) Model() Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modelLocked()
}

func (c *Component) modelLocked() Model {
	return Build(Input{
		SiteTitle:   c.opts.SiteTitle,
		Items:       c.opts.Items,
		Auth:        c.auth,
		CurrentPath: c.path,
		Theme:       c.opts.Theme,
		RetryAfter:  c.opts.RetryAfter,
	})
}

func (c *Component) update(gen uint64, apply func() bool) {
	c.mu.Lock()
	if !c.mounted || c.generation != gen {
		c.mu.Unlock()
		return
	}
	changed := apply()
	c.mu.Unlock()
	if changed {
		c.emit(gen, false)
	}
}

// emit renders the latest snapshot. The initial render is skipped when an update
// during Mount already rendered for gen.
func (c *Component) emit(gen uint64, initial bool) {
	c.render.Lock()
	defer c.render.Unlock()

	c.mu.Lock()
	if !c.mounted || c.generation != gen || (initial && c.rendered == gen) {
		c.mu.Unlock()
		return
	}
	c.rendered = gen
	m := c.modelLocked()
	c.mu.Unlock()

	if c.opts.OnRender != nil {
		c.opts.OnRender(m)
	}
}
