package httpx

import (
	"bufio"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/target/marketnest/internal/adapters/authroles"
	"github.com/target/marketnest/internal/adapters/memory"
	authmocks "github.com/target/marketnest/internal/mocks/auth"
	"github.com/target/marketnest/internal/observability/metrics"
	"github.com/target/marketnest/internal/ports"
	"github.com/target/marketnest/internal/service"
)

// harness runs the full router over a real listener with in-memory adapters.
type harness struct {
	t        *testing.T
	provider *authmocks.MockAuthProvider
	sessions ports.SessionStore
	events   *memory.SessionEvents
	svc      *service.AuthService
	metrics  *metrics.Recorder
	srv      *httptest.Server
}

type harnessOption func(*harness)

func withSessions(s ports.SessionStore) harnessOption {
	return func(h *harness) { h.sessions = s }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		provider: authmocks.NewMockAuthProvider(),
		sessions: memory.NewSessionStore(nil),
		events:   memory.NewSessionEvents(),
		metrics:  metrics.NewRecorder(metrics.Options{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.svc = service.NewAuthService(service.AuthServiceOptions{
		Provider:       h.provider,
		Sessions:       h.sessions,
		Roles:          authroles.StaticRoleMapper{},
		Events:         h.events,
		Metrics:        h.metrics,
		ResolveTimeout: 200 * time.Millisecond,
	})
	feed := service.NewAuthStateFeed(service.AuthStateFeedOptions{
		Resolver:      h.svc,
		Events:        h.events,
		RetryInterval: 50 * time.Millisecond,
	})
	h.srv = httptest.NewServer(NewRouter(RouterServices{
		Auth:       h.svc,
		Feed:       feed,
		Metrics:    h.metrics,
		SiteTitle:  "MarketNest",
		RetryAfter: time.Second,
		KeepAlive:  time.Hour,
	}))
	t.Cleanup(h.srv.Close)
	return h
}

// browser is one cookie-carrying client. It never follows redirects.
type browser struct {
	t      *testing.T
	h      *harness
	client *http.Client
}

func (h *harness) browser() *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(h.t, err)
	return &browser{
		t: h.t,
		h: h,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type response struct {
	*http.Response
	body string
}

func (b *browser) do(req *http.Request) response {
	b.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return response{Response: resp, body: string(body)}
}

func (b *browser) get(path string) response {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.h.srv.URL+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

// post submits form as htmx would, with the CSRF header from the cookie.
func (b *browser) post(path string, form url.Values, htmx bool) response {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.h.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("Hx-Request", "true")
		req.Header.Set(DefaultCSRFHeaderName, b.cookie(DefaultCSRFCookieName))
	}
	return b.do(req)
}

func (b *browser) cookie(name string) string {
	u, _ := url.Parse(b.h.srv.URL)
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func (b *browser) setCookie(name, value string) {
	u, _ := url.Parse(b.h.srv.URL)
	b.client.Jar.SetCookies(u, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
}

// signIn runs the sign-in round trip and returns the final redirect location.
func (b *browser) signIn(next string) string {
	b.t.Helper()
	start := b.get(signInPath(next))
	require.Equal(b.t, http.StatusFound, start.StatusCode)
	state := b.cookie(oauthStateCookie)
	require.NotEmpty(b.t, state)

	cb := b.get(PathAuthCallback + "?" + url.Values{"code": {"abc"}, "state": {state}}.Encode())
	require.Equal(b.t, http.StatusFound, cb.StatusCode, cb.body)
	require.NotEmpty(b.t, b.cookie(SessionCookieName))
	return cb.Header.Get("Location")
}

func signInPath(next string) string {
	return "/auth/sign-in?" + url.Values{"next": {next}}.Encode()
}

// sseEvent is one parsed server-sent event.
type sseEvent struct {
	name string
	data string
}

// openStream connects to the header stream and delivers parsed events.
func (b *browser) openStream(path string) <-chan sseEvent {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.h.srv.URL+"/header/stream?"+url.Values{"path": {path}}.Encode(), nil)
	require.NoError(b.t, err)
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	require.Equal(b.t, http.StatusOK, resp.StatusCode)
	require.Equal(b.t, "text/event-stream", resp.Header.Get("Content-Type"))
	b.t.Cleanup(func() { _ = resp.Body.Close() })

	out := make(chan sseEvent, 16)
	go func() {
		defer close(out)
		r := bufio.NewReader(resp.Body)
		var ev sseEvent
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimRight(line, "\n")
			switch {
			case line == "":
				if ev.name != "" || ev.data != "" {
					out <- ev
				}
				ev = sseEvent{}
			case strings.HasPrefix(line, "event: "):
				ev.name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				if ev.data != "" {
					ev.data += "\n"
				}
				ev.data += strings.TrimPrefix(line, "data: ")
			}
		}
	}()
	return out
}

func nextEvent(t *testing.T, events <-chan sseEvent) sseEvent {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "stream closed")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for header event")
		return sseEvent{}
	}
}

// parseHTML parses a document or fragment.
func parseHTML(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func byClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool { return hasClass(n, class) }
}

func byTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Data == tag }
}

func byID(id string) func(*html.Node) bool {
	return func(n *html.Node) bool { return attr(n, "id") == id }
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
