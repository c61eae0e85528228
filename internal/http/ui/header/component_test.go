package header

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/marketnest/internal/domain/auth"
	"github.com/target/marketnest/internal/domain/nav"
	"github.com/target/marketnest/internal/observe"
)

type renderLog struct {
	mu     sync.Mutex
	models []Model
}

func (l *renderLog) record(m Model) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.models = append(l.models, m)
}

func (l *renderLog) all() []Model {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Model(nil), l.models...)
}

func newTestComponent(log *renderLog) *Component {
	return NewComponent(ComponentOptions{
		SiteTitle: "MarketNest",
		Items:     []nav.Item{{Title: "Home", URL: "/"}, {Title: "About", URL: "/about"}},
		OnRender:  log.record,
	})
}

func activeURL(m Model) string {
	for _, l := range m.Links {
		if l.Active {
			return l.URL
		}
	}
	return ""
}

func TestComponent_MountRendersOnce(t *testing.T) {
	log := &renderLog{}
	c := newTestComponent(log)
	auth := observe.NewValue(domainauth.LoadingState())
	route := observe.NewValue("/")

	require.NoError(t, c.Mount(auth, route))
	defer c.Unmount()

	models := log.all()
	require.Len(t, models, 1)
	assert.Equal(t, domainauth.StateLoading, models[0].Auth.Kind)
	assert.Equal(t, "/", activeURL(models[0]))
	assert.True(t, c.Mounted())
}

func TestComponent_RerendersOnAuthAndRouteChanges(t *testing.T) {
	log := &renderLog{}
	c := newTestComponent(log)
	auth := observe.NewValue(domainauth.LoadingState(), observe.WithEqual(domainauth.State.Equal))
	route := observe.NewValue("/")

	require.NoError(t, c.Mount(auth, route))
	defer c.Unmount()

	auth.Set(domainauth.UnauthenticatedState())
	route.Set("/about")
	auth.Set(domainauth.AuthenticatedAs("Jane Doe"))
	// Same route again is not a change.
	route.Set("/about")

	models := log.all()
	require.Len(t, models, 4)
	assert.Equal(t, domainauth.StateUnauthenticated, models[1].Auth.Kind)
	assert.Equal(t, "/", activeURL(models[1]))
	assert.Equal(t, "/about", activeURL(models[2]))
	assert.Equal(t, "Jane Doe", models[3].Auth.Name)
	assert.Equal(t, "/about", models[3].CurrentPath)
}

func TestComponent_NoRenderAfterUnmount(t *testing.T) {
	log := &renderLog{}
	c := newTestComponent(log)
	auth := observe.NewValue(domainauth.LoadingState())
	route := observe.NewValue("/")

	require.NoError(t, c.Mount(auth, route))
	c.Unmount()
	c.Unmount()

	auth.Set(domainauth.AuthenticatedAs("Ada"))
	route.Set("/about")

	assert.Len(t, log.all(), 1)
	assert.Equal(t, 0, auth.Subscribers())
	assert.Equal(t, 0, route.Subscribers())
	assert.False(t, c.Mounted())
}

func TestComponent_DoubleMountFails(t *testing.T) {
	c := newTestComponent(&renderLog{})
	auth := observe.NewValue(domainauth.LoadingState())
	route := observe.NewValue("/")

	require.NoError(t, c.Mount(auth, route))
	defer c.Unmount()

	assert.ErrorIs(t, c.Mount(auth, route), ErrAlreadyMounted)
	assert.Equal(t, 1, auth.Subscribers())
}

func TestComponent_Remount(t *testing.T) {
	log := &renderLog{}
	c := newTestComponent(log)
	auth := observe.NewValue(domainauth.LoadingState())
	route := observe.NewValue("/")

	require.NoError(t, c.Mount(auth, route))
	c.Unmount()

	auth.Set(domainauth.UnauthenticatedState())
	require.NoError(t, c.Mount(auth, route))
	defer c.Unmount()

	models := log.all()
	require.Len(t, models, 2)
	assert.Equal(t, domainauth.StateUnauthenticated, models[1].Auth.Kind)
}

func TestComponent_LastRenderReflectsLatestSnapshot(t *testing.T) {
	log := &renderLog{}
	c := newTestComponent(log)
	auth := observe.NewValue(domainauth.LoadingState(), observe.WithEqual(domainauth.State.Equal))
	route := observe.NewValue("/")

	require.NoError(t, c.Mount(auth, route))
	defer c.Unmount()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 50 {
			auth.Set(domainauth.UnauthenticatedState())
			auth.Set(domainauth.AuthenticatedAs("Ada"))
		}
	}()
	go func() {
		defer wg.Done()
		for range 50 {
			route.Set("/about")
			route.Set("/")
		}
	}()
	wg.Wait()

	models := log.all()
	last := models[len(models)-1]
	assert.Equal(t, "Ada", last.Auth.Name)
	assert.Equal(t, "/", last.CurrentPath)
	assert.Equal(t, c.Model(), last)
}

func TestNewComponent_DefaultItems(t *testing.T) {
	c := NewComponent(ComponentOptions{})
	assert.Len(t, c.Model().Links, len(nav.DefaultItems()))
}

// movingRoute is a route observer whose value changes while the subscriber is
// being registered, as a navigation racing Mount would.
type movingRoute struct {
	*observe.Value[string]
	next string
}

func (r movingRoute) Subscribe(fn func(string)) func() {
	unsub := r.Value.Subscribe(fn)
	r.Set(r.next)
	return unsub
}

func TestComponent_MountChangeDuringSubscribeRendersOnce(t *testing.T) {
	log := &renderLog{}
	c := newTestComponent(log)
	auth := observe.NewValue(domainauth.UnauthenticatedState())
	route := movingRoute{Value: observe.NewValue("/"), next: "/about"}

	require.NoError(t, c.Mount(auth, route))
	defer c.Unmount()

	models := log.all()
	require.Len(t, models, 1)
	assert.Equal(t, "/about", activeURL(models[0]))
	assert.Equal(t, domainauth.StateUnauthenticated, models[0].Auth.Kind)
}
