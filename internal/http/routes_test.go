package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/target/marketnest/internal/domain/auth"
	"github.com/target/marketnest/internal/domain/nav"
	"github.com/target/marketnest/internal/mocks"
	"github.com/target/marketnest/internal/ports"
)

func TestRouter_PagesMarkOnlyCurrentLinkActive(t *testing.T) {
	h := newHarness(t)
	b := h.browser()

	for _, item := range nav.DefaultItems() {
		t.Run(item.Title, func(t *testing.T) {
			resp := b.get(item.URL)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

			doc := parseHTML(t, resp.body)
			links := findAll(doc, byClass("nav-link"))
			require.Len(t, links, len(nav.DefaultItems()))
			active := findAll(doc, byClass("nav-link-active"))
			require.Len(t, active, 1)
			assert.Equal(t, item.URL, attr(active[0], "href"))
			assert.Equal(t, "page", attr(active[0], "aria-current"))

			title := findAll(doc, byClass("site-title"))
			require.Len(t, title, 1)
			assert.Equal(t, "/", attr(title[0], "href"))
			assert.Equal(t, "MarketNest", textOf(title[0]))
		})
	}
}

func TestRouter_UnknownPathHasNoActiveLink(t *testing.T) {
	b := newHarness(t).browser()

	for _, path := range []string{"/shop/", "/Shop", "/shop/items"} {
		resp := b.get(path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		doc := parseHTML(t, resp.body)
		assert.Empty(t, findAll(doc, byClass("nav-link-active")), path)
		assert.Len(t, findAll(doc, byID("site-header")), 1, path)
	}
}

func TestRouter_SignedOutShowsSignUpThenSignIn(t *testing.T) {
	b := newHarness(t).browser()

	doc := parseHTML(t, b.get("/about").body)
	slot := findAll(doc, byID("header-auth"))
	require.Len(t, slot, 1)
	actions := findAll(slot[0], byClass("btn"))
	require.Len(t, actions, 2)
	assert.Equal(t, "Sign Up", textOf(actions[0]))
	assert.True(t, hasClass(actions[0], "btn-primary"))
	assert.Equal(t, "/auth/sign-up?next=%2Fabout", attr(actions[0], "href"))
	assert.Equal(t, "Sign In", textOf(actions[1]))
	assert.True(t, hasClass(actions[1], "btn-link"))
	assert.Equal(t, "/auth/sign-in?next=%2Fabout", attr(actions[1], "href"))
	assert.Empty(t, findAll(doc, byClass("user-name")))
}

func TestRouter_SignInShowsDisplayName(t *testing.T) {
	h := newHarness(t)
	b := h.browser()

	assert.Equal(t, "/shop", b.signIn("/shop"))

	doc := parseHTML(t, b.get("/shop").body)
	names := findAll(doc, byClass("user-name"))
	require.Len(t, names, 1)
	assert.Equal(t, "Mock Shopper", textOf(names[0]))
	assert.Empty(t, findAll(findAll(doc, byID("header-auth"))[0], byClass("btn")))
	assert.Len(t, findAll(doc, byClass("sign-out")), 1)
}

func TestRouter_SignInWithoutNameFallsBackToUser(t *testing.T) {
	h := newHarness(t)
	h.provider.DefaultUser = domainauth.Identity{UserID: "u-2", Email: "anon@example.com"}
	b := h.browser()
	b.signIn("/")

	names := findAll(parseHTML(t, b.get("/").body), byClass("user-name"))
	require.Len(t, names, 1)
	assert.Equal(t, domainauth.FallbackDisplayName, textOf(names[0]))
}

func TestRouter_SignUpRequestsRegistration(t *testing.T) {
	h := newHarness(t)
	b := h.browser()

	resp := b.get("/auth/sign-up?next=%2Fcontact")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "prompt=create")
	calls := h.provider.BeginCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, ports.IntentSignUp, calls[0].Intent)
	assert.Equal(t, "/contact", b.cookie(postLoginRedirectCookie))
}

func TestRouter_UnsafeNextFallsBackToHome(t *testing.T) {
	b := newHarness(t).browser()
	assert.Equal(t, "/", b.signIn("https://evil.example/phish"))
}

func TestRouter_CallbackRejectsBadState(t *testing.T) {
	b := newHarness(t).browser()
	b.get(signInPath("/"))

	resp := b.get(PathAuthCallback + "?code=abc&state=forged")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.body, "invalid_state")

	resp = b.get(PathAuthCallback + "?state=x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.body, "missing_code")
	assert.Empty(t, b.cookie(SessionCookieName))
}

func TestRouter_SignOut(t *testing.T) {
	b := newHarness(t).browser()
	b.signIn("/")

	resp := b.post("/auth/sign-out", url.Values{
		"csrf_token": {b.cookie(DefaultCSRFCookieName)},
		"next":       {"/shop"},
	}, false)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/shop", resp.Header.Get("Location"))
	assert.Empty(t, b.cookie(SessionCookieName))

	doc := parseHTML(t, b.get("/shop").body)
	assert.Len(t, findAll(doc, byClass("btn-primary")), 1)
	assert.Empty(t, findAll(doc, byClass("user-name")))
}

func TestRouter_SignOutRequiresCSRF(t *testing.T) {
	b := newHarness(t).browser()
	b.signIn("/")

	resp := b.post("/auth/sign-out", url.Values{"next": {"/"}}, false)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.NotEmpty(t, b.cookie(SessionCookieName))
}

func TestRouter_ThemeToggle(t *testing.T) {
	b := newHarness(t).browser()
	b.get("/")

	resp := b.post("/theme/toggle", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "dark", b.cookie("theme"))
	assert.JSONEq(t, `{"themeChanged":{"theme":"dark"}}`, resp.Header.Get("Hx-Trigger"))
	assert.Contains(t, resp.body, `id="theme-toggle"`)
	assert.Contains(t, resp.body, `data-theme="dark"`)

	doc := parseHTML(t, b.get("/").body)
	htmlEl := findAll(doc, byTag("html"))
	require.Len(t, htmlEl, 1)
	assert.Equal(t, "dark", attr(htmlEl[0], "data-theme"))

	b.post("/theme/toggle", nil, true)
	assert.Equal(t, "light", b.cookie("theme"))
}

func TestRouter_HeaderAuthPartial(t *testing.T) {
	b := newHarness(t).browser()

	resp := b.get("/header/auth?path=%2Fabout")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.True(t, strings.HasPrefix(resp.body, `<div id="header-auth"`))
	assert.Contains(t, resp.body, `href="/auth/sign-up?next=%2Fabout"`)

	resp = b.get("/header/auth?path=https%3A%2F%2Fevil.example%2F")
	assert.Contains(t, resp.body, `href="/auth/sign-up?next=%2F"`)
}

func TestRouter_StoreFailureRendersLoading(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "sess-1").Return(domainauth.Session{}, errors.New("connection refused")).AnyTimes()

	b := newHarness(t, withSessions(store)).browser()
	b.setCookie(SessionCookieName, "sess-1")

	doc := parseHTML(t, b.get("/contact").body)
	hdr := findAll(doc, byID("site-header"))
	require.Len(t, hdr, 1)
	assert.Equal(t, "loading", attr(hdr[0], "data-auth"))

	slot := findAll(doc, byID("header-auth"))
	require.Len(t, slot, 1)
	assert.Nil(t, slot[0].FirstChild, "loading slot is empty")
	assert.Equal(t, "/header/auth?path=%2Fcontact", attr(slot[0], "hx-get"))
	assert.Equal(t, "load delay:1s", attr(slot[0], "hx-trigger"))

	status := b.get(PathAuthStatus)
	assert.JSONEq(t, `{"state":"loading","authenticated":false}`, status.body)
}

func TestRouter_AuthStatus(t *testing.T) {
	b := newHarness(t).browser()
	assert.JSONEq(t, `{"state":"unauthenticated","authenticated":false}`, b.get(PathAuthStatus).body)

	b.signIn("/")
	resp := b.get(PathAuthStatus)
	assert.Contains(t, resp.body, `"display_name":"Mock Shopper"`)
	assert.Contains(t, resp.body, `"authenticated":true`)
	assert.Contains(t, resp.body, `"role":"customer"`)
}

func TestRouter_HeaderStreamFollowsSignInAndSignOut(t *testing.T) {
	h := newHarness(t)
	b := h.browser()
	b.get("/shop")

	events := b.openStream("/shop")

	first := nextEvent(t, events)
	assert.Equal(t, "header", first.name)
	assert.Contains(t, first.data, "Sign Up")
	assert.Contains(t, first.data, `aria-current="page"`)

	// Another tab of the same browser signs in.
	b.signIn("/shop")
	signedIn := nextEvent(t, events)
	assert.Contains(t, signedIn.data, "Mock Shopper")
	assert.NotContains(t, signedIn.data, "Sign In")

	resp := b.post("/auth/sign-out", url.Values{"next": {"/shop"}}, true)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "/shop", resp.Header.Get("Hx-Redirect"))

	signedOut := nextEvent(t, events)
	assert.Contains(t, signedOut.data, "Sign Up")
	assert.NotContains(t, signedOut.data, "Mock Shopper")
}

func TestRouter_HeaderLive(t *testing.T) {
	b := newHarness(t).browser()
	resp := b.get("/header/live?path=%2Fshop")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.body, `id="header-live"`)
	assert.Contains(t, resp.body, `sse-connect="/header/stream?path=%2Fshop"`)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	b := newHarness(t).browser()
	b.get("/")

	assert.Equal(t, http.StatusOK, b.get(PathHealth).StatusCode)

	resp := b.get(PathMetrics)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.body, `marketnest_header_renders_total{auth="unauthenticated"}`)
	assert.Contains(t, resp.body, `marketnest_http_requests_total{method="GET",route="GET /{$}",status="200"}`)
}
