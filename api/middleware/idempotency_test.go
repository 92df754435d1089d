package middleware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func requestWithPattern(method, url, pattern string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, url, body)
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{pattern}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestRouteTTLSelection(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		pattern string
		want    time.Duration
		ok      bool
	}{
		{"register", http.MethodPost, "/api/v1/events/{eventID}/registrations", defaultIdempotencyTTL, true},
		{"withdrawal", http.MethodPost, "/api/v1/events/{eventID}/registrations/{orgID}/withdrawal", defaultIdempotencyTTL, true},
		{"schedule", http.MethodPost, "/api/v1/events/{eventID}/schedule", defaultIdempotencyTTL, true},
		{"pay fee", http.MethodPost, "/api/v1/fees/{feeID}/pay", feeIdempotencyTTL, true},
		{"read schedule", http.MethodGet, "/api/v1/events/{eventID}/schedule", 0, false},
		{"config", http.MethodPost, "/api/v1/config/seasons", 0, false},
	}

	for _, tt := range tests {
		ttl, ok := routeTTL(tt.method, tt.pattern)
		if ok != tt.ok {
			t.Fatalf("%s: expected ok=%v got %v", tt.name, tt.ok, ok)
		}
		if ok && ttl != tt.want {
			t.Fatalf("%s: expected ttl=%v got %v", tt.name, tt.want, ttl)
		}
	}
}

func TestIdempotencyMiddlewareRequiresHeader(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusCreated)
	})

	req := requestWithPattern(http.MethodPost, "/api/v1/fees/recalculate", "/api/v1/fees/recalculate", strings.NewReader(`{"foo":"bar"}`))
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if handlerCalled {
		t.Fatalf("handler should not run without idempotency key")
	}
}

func TestIdempotencyMiddlewareReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"data":{"ok":true}}`))
	})

	makeRequest := func() *httptest.ResponseRecorder {
		req := requestWithPattern(http.MethodPost, "/api/v1/fees/recalculate", "/api/v1/fees/recalculate", strings.NewReader(`{"foo":"bar"}`))
		req.Header.Set("Idempotency-Key", "abc-123")
		resp := httptest.NewRecorder()
		mw(handler).ServeHTTP(resp, req)
		return resp
	}

	first := makeRequest()
	second := makeRequest()

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if first.Code != http.StatusAccepted || second.Code != http.StatusAccepted {
		t.Fatalf("expected both responses 202, got %d and %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replayed body differs: %q vs %q", first.Body.String(), second.Body.String())
	}
}

func TestIdempotencyMiddlewareRejectsReusedKeyWithDifferentBody(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	send := func(body string) *httptest.ResponseRecorder {
		req := requestWithPattern(http.MethodPost, "/api/v1/fees/recalculate", "/api/v1/fees/recalculate", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "abc-123")
		resp := httptest.NewRecorder()
		mw(handler).ServeHTTP(resp, req)
		return resp
	}

	send(`{"a":1}`)
	second := send(`{"a":2}`)

	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409 for reused key with new body, got %d", second.Code)
	}
}

func TestIdempotencyMiddlewareSkipsUnlistedRoutes(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	req := requestWithPattern(http.MethodPost, "/api/v1/config/seasons", "/api/v1/config/seasons", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if !handlerCalled {
		t.Fatalf("handler should run for routes outside the idempotency list")
	}
	if len(store.data) != 0 {
		t.Fatalf("no record should be stored for unlisted routes")
	}
}
