package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfHandler(t *testing.T, cfg CSRFConfig) http.Handler {
	t.Helper()
	return CSRFProtection(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(GetCSRFToken(r)))
	}))
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// issueCSRFToken performs a GET and returns the issued token.
func issueCSRFToken(t *testing.T, h http.Handler) string {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	resp := w.Result()
	defer resp.Body.Close()
	c := findCookie(resp, DefaultCSRFCookieName)
	require.NotNil(t, c, "CSRF cookie not set")
	require.NotEmpty(t, c.Value)
	return c.Value
}

func TestCSRFProtection_GetIssuesTokenIntoContext(t *testing.T) {
	h := csrfHandler(t, CSRFConfig{})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	resp := w.Result()
	defer resp.Body.Close()
	c := findCookie(resp, DefaultCSRFCookieName)
	require.NotNil(t, c)
	assert.Equal(t, c.Value, w.Body.String(), "context token matches cookie token")
	assert.False(t, c.HttpOnly, "token must be readable by page scripts")
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
}

func TestCSRFProtection_PostValidation(t *testing.T) {
	h := csrfHandler(t, CSRFConfig{})
	token := issueCSRFToken(t, h)

	tests := []struct {
		name string
		req  func() *http.Request
		want int
	}{
		{
			name: "no token",
			req:  func() *http.Request { return httptest.NewRequest(http.MethodPost, "/test", nil) },
			want: http.StatusForbidden,
		},
		{
			name: "header token",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/test", nil)
				r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				r.Header.Set(DefaultCSRFHeaderName, token)
				return r
			},
			want: http.StatusOK,
		},
		{
			name: "form token",
			req: func() *http.Request {
				form := url.Values{DefaultCSRFCookieName: {token}}
				r := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(form.Encode()))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				return r
			},
			want: http.StatusOK,
		},
		{
			name: "mismatched header",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/test", nil)
				r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				r.Header.Set(DefaultCSRFHeaderName, "different-token")
				return r
			},
			want: http.StatusForbidden,
		},
		{
			name: "json body without header",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"csrf_token":"x"}`))
				r.Header.Set("Content-Type", "application/json")
				r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				return r
			},
			want: http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, tt.req())
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCSRFProtection_SafeMethodsExempt(t *testing.T) {
	h := csrfHandler(t, CSRFConfig{})
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace} {
		t.Run(method, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(method, "/test", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestCSRFProtection_SecureBehindProxy(t *testing.T) {
	h := csrfHandler(t, CSRFConfig{CookieDomain: "example.com"})
	req := httptest.NewRequest(http.MethodGet, "http://example.com/test", nil)
	req.Header.Set("X-Forwarded-Proto", "http, https")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	c := findCookie(resp, DefaultCSRFCookieName)
	require.NotNil(t, c)
	assert.True(t, c.Secure)
	assert.Equal(t, "example.com", c.Domain)
}

func TestCSRFProtection_ExistingCookieNotReissued(t *testing.T) {
	h := csrfHandler(t, CSRFConfig{})
	token := issueCSRFToken(t, h)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Empty(t, resp.Cookies())
	assert.Equal(t, token, w.Body.String())
}
