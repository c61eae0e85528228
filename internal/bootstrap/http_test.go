package bootstrap

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/marketnest/config"
	"github.com/target/marketnest/internal/observability/metrics"
)

func memoryAppConfig() *config.AppConfig {
	cfg := &config.AppConfig{
		Site:    config.SiteConfig{Title: "Corner Shop"},
		Auth:    mockAuthConfig(),
		Session: config.SessionConfig{Backend: config.SessionBackendMemory},
	}
	cfg.Sanitize()
	return cfg
}

func TestBuildHTTPHandler_RequiresAuth(t *testing.T) {
	_, err := BuildHTTPHandler(HandlerConfig{Config: memoryAppConfig()})
	require.Error(t, err)
}

func TestBuildHTTPHandler_ServesStorefront(t *testing.T) {
	cfg := memoryAppConfig()
	stack, err := BuildAuth(AuthConfig{Auth: cfg.Auth, Session: cfg.Session, Logger: discardLogger()})
	require.NoError(t, err)

	static := fstest.MapFS{
		"manifest.json":        {Data: []byte(`{"css/app.css":"css/app.0123abcd.css"}`)},
		"css/app.0123abcd.css": {Data: []byte("body{}")},
	}
	handler, err := BuildHTTPHandler(HandlerConfig{
		Config:  cfg,
		Auth:    stack,
		Static:  static,
		Metrics: metrics.NewRecorder(metrics.Options{}),
		Logger:  discardLogger(),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/about")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Corner Shop")
	assert.Contains(t, string(body), "/static/css/app.0123abcd.css")

	resp, err = http.Get(srv.URL + "/static/css/app.0123abcd.css")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Cache-Control"), "immutable")

	for _, path := range []string{"/healthz", "/metrics"} {
		resp, err = http.Get(srv.URL + path)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestShutdownHTTPServer(t *testing.T) {
	require.NoError(t, ShutdownHTTPServer(ShutdownConfig{}))

	base, cancel := context.WithCancel(context.Background())
	srv := NewHTTPServer(base, "127.0.0.1:0", http.NotFoundHandler())
	cancel()
	assert.NoError(t, ShutdownHTTPServer(ShutdownConfig{Server: srv, Timeout: time.Second, Logger: discardLogger()}))
}

func TestNewHTTPServer_DefaultAddr(t *testing.T) {
	srv := NewHTTPServer(context.Background(), "", http.NotFoundHandler())
	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, context.Background(), srv.BaseContext(nil))
}

func TestRun_RequiresConfig(t *testing.T) {
	require.Error(t, Run(context.Background(), RunConfig{}))
}

func TestRun_StopsWithContext(t *testing.T) {
	cfg := memoryAppConfig()
	cfg.HTTP.Addr = "127.0.0.1:0"
	cfg.Observability.Metrics.Enabled = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, RunConfig{Config: cfg, Logger: discardLogger()}) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
