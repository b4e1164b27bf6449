package memos_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"memos-mcp/config"
	"memos-mcp/internal/memos"
	"memos-mcp/pkg/log"
)

func newTestClient(t *testing.T, baseURL string, maxRetries int) *memos.Client {
	t.Helper()
	return memos.NewClient(config.MemosConfig{
		BaseURL:            baseURL,
		APIVersion:         "v1",
		AccessToken:        "test-token",
		Timeout:            2 * time.Second,
		MaxRetries:         maxRetries,
		RateLimitPerMinute: 6000,
	}, memos.NewRateLimiter(6000), log.NewNop())
}

func TestClientExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("success attaches auth header", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("unexpected auth header: %q", got)
			}
			if r.URL.Path != "/api/v1/memos" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			w.Write([]byte(`{"ok": true}`))
		}))
		defer ts.Close()

		res, err := newTestClient(t, ts.URL, 3).Execute(ctx, http.MethodGet, "/memos", nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Attempts != 1 {
			t.Errorf("expected 1 attempt, got %d", res.Attempts)
		}
	})

	t.Run("retries 503 then succeeds with attempts=3", func(t *testing.T) {
		var calls atomic.Int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) <= 2 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`{"ok": true}`))
		}))
		defer ts.Close()

		res, err := newTestClient(t, ts.URL, 3).Execute(ctx, http.MethodGet, "/memos", nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Attempts != 3 {
			t.Errorf("expected 3 attempts, got %d", res.Attempts)
		}
	})

	t.Run("exhausted retries surface server error with last status", func(t *testing.T) {
		var calls atomic.Int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer ts.Close()

		_, err := newTestClient(t, ts.URL, 2).Execute(ctx, http.MethodGet, "/memos", nil, nil)
		apiErr := asAPIError(t, err)
		if apiErr.Kind != memos.KindServer {
			t.Errorf("expected server kind, got %s", apiErr.Kind)
		}
		if apiErr.StatusCode != http.StatusBadGateway {
			t.Errorf("expected status 502, got %d", apiErr.StatusCode)
		}
		if apiErr.Attempts != 3 {
			t.Errorf("expected 3 attempts recorded, got %d", apiErr.Attempts)
		}
		if got := calls.Load(); got != 3 {
			t.Errorf("expected 3 calls, got %d", got)
		}
	})

	t.Run("404 fails immediately as not found", func(t *testing.T) {
		var calls atomic.Int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		_, err := newTestClient(t, ts.URL, 3).Execute(ctx, http.MethodGet, "/memos/nonexistent", nil, nil)
		if !memos.IsNotFound(err) {
			t.Errorf("expected not found, got %v", err)
		}
		if got := calls.Load(); got != 1 {
			t.Errorf("expected no retries for 404, got %d calls", got)
		}
	})

	t.Run("401 fails immediately as unauthorized", func(t *testing.T) {
		var calls atomic.Int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer ts.Close()

		_, err := newTestClient(t, ts.URL, 3).Execute(ctx, http.MethodGet, "/memos", nil, nil)
		apiErr := asAPIError(t, err)
		if apiErr.Kind != memos.KindUnauthorized {
			t.Errorf("expected unauthorized kind, got %s", apiErr.Kind)
		}
		if got := calls.Load(); got != 1 {
			t.Errorf("expected no retries for 401, got %d calls", got)
		}
	})

	t.Run("429 is retried", func(t *testing.T) {
		var calls atomic.Int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(`{}`))
		}))
		defer ts.Close()

		res, err := newTestClient(t, ts.URL, 3).Execute(ctx, http.MethodGet, "/memos", nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Attempts != 2 {
			t.Errorf("expected 2 attempts, got %d", res.Attempts)
		}
	})

	t.Run("unreachable host is a network error", func(t *testing.T) {
		_, err := newTestClient(t, "http://127.0.0.1:1", 0).Execute(ctx, http.MethodGet, "/memos", nil, nil)
		apiErr := asAPIError(t, err)
		if apiErr.Kind != memos.KindNetwork && apiErr.Kind != memos.KindTimeout {
			t.Errorf("expected network or timeout kind, got %s", apiErr.Kind)
		}
	})

	t.Run("caller cancellation aborts retries", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		cancelCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := newTestClient(t, ts.URL, 5).Execute(cancelCtx, http.MethodGet, "/memos", nil, nil)
		if err == nil {
			t.Fatal("expected error")
		}
		if elapsed := time.Since(start); elapsed > 2*time.Second {
			t.Errorf("cancellation did not abort retries promptly: %v", elapsed)
		}
	})

	t.Run("non-JSON success body is malformed", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer ts.Close()

		_, err := newTestClient(t, ts.URL, 0).Execute(ctx, http.MethodGet, "/memos", nil, nil)
		apiErr := asAPIError(t, err)
		if apiErr.Kind != memos.KindMalformedResponse {
			t.Errorf("expected malformed kind, got %s", apiErr.Kind)
		}
	})
}

func asAPIError(t *testing.T, err error) *memos.APIError {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *memos.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	return apiErr
}
