package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTMX_RequestDetection(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.Header.Set("Hx-Request", "true")
	r.Header.Set("Hx-Boosted", "true")
	r.Header.Set("Hx-Current-Url", "http://shop.test/about")
	if !IsHTMX(r) {
		t.Fatal("expected IsHTMX true")
	}
	if !IsBoosted(r) {
		t.Fatal("expected IsBoosted true")
	}
	if HXCurrentURL(r) != "http://shop.test/about" {
		t.Fatalf("HXCurrentURL mismatch: %q", HXCurrentURL(r))
	}

	r2 := httptest.NewRequest(http.MethodGet, "/x", nil)
	if IsHTMX(r2) || IsBoosted(r2) {
		t.Fatal("expected defaults to false")
	}
}

func TestSetHXTrigger_Payload(t *testing.T) {
	w := httptest.NewRecorder()
	SetHXTrigger(w, ThemeChangedEvent, map[string]string{"theme": "dark"})

	var got map[string]map[string]string
	if err := json.Unmarshal([]byte(w.Header().Get("Hx-Trigger")), &got); err != nil {
		t.Fatalf("invalid Hx-Trigger json: %v", err)
	}
	if got[ThemeChangedEvent]["theme"] != "dark" {
		t.Fatalf("unexpected payload: %v", got)
	}
}

func TestSetHXTrigger_NilPayload(t *testing.T) {
	w := httptest.NewRecorder()
	SetHXTrigger(w, "refresh", nil)
	if h := w.Header().Get("Hx-Trigger"); h != `{"refresh":true}` {
		t.Fatalf("unexpected header: %q", h)
	}
}

func TestSetHXRedirect(t *testing.T) {
	w := httptest.NewRecorder()
	SetHXRedirect(w, "/shop")
	if h := w.Header().Get("Hx-Redirect"); h != "/shop" {
		t.Fatalf("unexpected header: %q", h)
	}
}
