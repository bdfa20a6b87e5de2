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
)

type memoryStore struct {
	values map[string]string
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	return m.values[key], nil
}

func (m *memoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.values[key] = value
	return nil
}

func idempotentHandler() (http.Handler, *int) {
	calls := 0
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"call":%d}`, calls)
	})
	return h, &calls
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	store := &memoryStore{values: make(map[string]string)}
	inner, calls := idempotentHandler()
	h := Idempotency(store)(inner)

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/events/1/guests", strings.NewReader("{}"))
		req.Header.Set("Idempotency-Key", "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := do()
	if first.Code != http.StatusCreated {
		t.Fatalf("first call: expected 201, got %d", first.Code)
	}

	second := do()
	if *calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", *calls)
	}
	body, _ := io.ReadAll(second.Body)
	if string(body) != `{"call":1}` {
		t.Errorf("expected replayed first response, got %s", body)
	}
}

func TestIdempotency_DistinctKeys(t *testing.T) {
	store := &memoryStore{values: make(map[string]string)}
	inner, calls := idempotentHandler()
	h := Idempotency(store)(inner)

	for i, key := range []string{"key-a", "key-b"} {
		req := httptest.NewRequest(http.MethodPost, "/events/1/guests", strings.NewReader("{}"))
		req.Header.Set("Idempotency-Key", key)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if *calls != i+1 {
			t.Fatalf("key %q: expected %d handler runs, got %d", key, i+1, *calls)
		}
	}
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	store := &memoryStore{values: make(map[string]string)}
	inner, calls := idempotentHandler()
	h := Idempotency(store)(inner)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/events/1/guests", strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
	}
	if *calls != 2 {
		t.Errorf("expected handler to run both times without a key, ran %d", *calls)
	}
	if len(store.values) != 0 {
		t.Errorf("expected nothing cached without a key, got %d entries", len(store.values))
	}
}

func TestIdempotency_ErrorResponsesNotCached(t *testing.T) {
	store := &memoryStore{values: make(map[string]string)}
	calls := 0
	h := Idempotency(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad"}`))
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/events/1/guests", strings.NewReader("{}"))
		req.Header.Set("Idempotency-Key", "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
	}

	if calls != 2 {
		t.Errorf("expected failed responses to not replay, handler ran %d times", calls)
	}
}

func TestHealth(t *testing.T) {
	h := Health(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 from /healthz, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/other", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTeapot {
		t.Errorf("expected passthrough for other paths, got %d", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated request id header")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "given-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") != "given-id" {
		t.Error("expected supplied request id to be preserved")
	}
}
