package httpx

import (
	"bytes"
	"context"
	"net/http"
	"time"

	domainauth "github.com/target/marketnest/internal/domain/auth"
	"github.com/target/marketnest/internal/http/ui/header"
	"github.com/target/marketnest/internal/http/ui/layout"
	"github.com/target/marketnest/internal/http/ui/theme"
	"github.com/target/marketnest/internal/observe"
)

// headerEvent names the SSE event carrying a rendered header.
const headerEvent = "header"

// HeaderAuth serves the auth slot alone. The Loading slot polls it until the
// session resolves.
// GET /header/auth?path=<current path>.
func (h *UIHandlers) HeaderAuth(w http.ResponseWriter, r *http.Request) {
	slot := header.BuildAuthSlot(h.resolveState(r), h.RetryAfter)
	h.Metrics.HeaderRendered(slot.Kind)
	w.Header().Set("Cache-Control", "no-store")
	h.render(w, r, http.StatusOK, header.RenderAuthSlot(slot, routePath(r)))
}

// HeaderLive serves the stream-connected header wrapper so the client can
// reconnect it.
// GET /header/live?path=<current path>.
func (h *UIHandlers) HeaderLive(w http.ResponseWriter, r *http.Request) {
	l := h.layoutFor(r, "", routePath(r))
	w.Header().Set("Cache-Control", "no-store")
	h.render(w, r, http.StatusOK, layout.LiveHeader(l))
}

// HeaderStream mounts a header component for this browser and streams every
// render as a "header" event until the client goes away.
// GET /header/stream?path=<current path>.
func (h *UIHandlers) HeaderStream(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	log := h.logger().With("client_id", ClientIDFromContext(ctx))

	renders := make(chan header.Model, 1)
	comp := header.NewComponent(header.ComponentOptions{
		SiteTitle:  h.SiteTitle,
		Items:      h.items(),
		Theme:      theme.FromRequest(r),
		RetryAfter: h.RetryAfter,
		OnRender:   func(m header.Model) { offerLatest(renders, m) },
	})

	auth := h.Feed.Watch(ctx, ClientIDFromContext(ctx), cookieValue(r, SessionCookieName))
	route := observe.NewValue(routePath(r))
	if err := comp.Mount(auth, route); err != nil {
		log.ErrorContext(ctx, "mount header failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer comp.Unmount()

	// Subscribed before the response starts, so no event published after the
	// client sees the stream open is missed.
	stream, err := startSSE(w)
	if err != nil {
		log.WarnContext(ctx, "start header stream failed", "error", err)
		return
	}
	defer h.Metrics.StreamOpened()()

	keepAlive := time.NewTicker(h.keepAlive())
	defer keepAlive.Stop()

	// The page already carries a header; Loading renders before the first
	// resolution would only blank its auth slot.
	resolved := false
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-renders:
			if !resolved && m.Auth.Kind == domainauth.StateLoading {
				continue
			}
			resolved = true
			if err := h.sendHeader(stream, m); err != nil {
				log.DebugContext(ctx, "header stream closed", "error", err)
				return
			}
		case <-keepAlive.C:
			if err := stream.Comment("keepalive"); err != nil {
				log.DebugContext(ctx, "header stream closed", "error", err)
				return
			}
		}
	}
}

func (h *UIHandlers) sendHeader(stream *sseWriter, m header.Model) error {
	var buf bytes.Buffer
	if err := header.Render(m).Render(&buf); err != nil {
		return err
	}
	h.Metrics.HeaderRendered(m.Auth.Kind)
	return stream.Event(headerEvent, buf.String())
}

// offerLatest puts m in a one-slot mailbox, replacing any unsent model.
// It must have a single sender; Component serialises OnRender.
func offerLatest(ch chan header.Model, m header.Model) {
	for {
		select {
		case ch <- m:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
