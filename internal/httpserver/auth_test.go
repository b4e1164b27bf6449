package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"memos-mcp/pkg/log"
)

func newTestServer(t *testing.T, accessToken string, authEnabled bool) *HTTPServer {
	t.Helper()

	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	})

	srv, err := New(log.NewNop(), Config{
		Logger:      log.NewNop(),
		Host:        "127.0.0.1",
		Port:        8000,
		Mode:        "test",
		Environment: "test",
		CORSOrigins: []string{"http://localhost:3000"},
		MCPHandler:  mcpHandler,
		AccessToken: accessToken,
		AuthEnabled: authEnabled,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return srv
}

func do(srv *HTTPServer, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.gin.ServeHTTP(rec, req)
	return rec
}

func TestTokenAuth(t *testing.T) {
	const token = "secret-token"
	hash := ComputeTokenHash(token)

	t.Run("valid hash passes through", func(t *testing.T) {
		srv := newTestServer(t, token, true)
		rec := do(srv, http.MethodPost, "/mcp?token="+hash, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		srv := newTestServer(t, token, true)
		rec := do(srv, http.MethodPost, "/mcp", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if body["code"] != "MISSING_TOKEN" {
			t.Errorf("unexpected code: %s", body["code"])
		}
	})

	t.Run("raw token is not accepted in place of its hash", func(t *testing.T) {
		srv := newTestServer(t, token, true)
		rec := do(srv, http.MethodPost, "/mcp?token="+token, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if body["code"] != "INVALID_TOKEN" {
			t.Errorf("unexpected code: %s", body["code"])
		}
	})

	t.Run("disabled auth admits everyone", func(t *testing.T) {
		srv := newTestServer(t, token, false)
		rec := do(srv, http.MethodPost, "/mcp", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("health endpoints are never gated", func(t *testing.T) {
		srv := newTestServer(t, token, true)
		for _, path := range []string{"/health", "/ready", "/live"} {
			rec := do(srv, http.MethodGet, path, nil)
			if rec.Code != http.StatusOK {
				t.Errorf("%s: expected 200, got %d", path, rec.Code)
			}
		}
	})
}

func TestCORS(t *testing.T) {
	const token = "secret-token"

	t.Run("configured origin is reflected", func(t *testing.T) {
		srv := newTestServer(t, token, false)
		rec := do(srv, http.MethodGet, "/health", map[string]string{"Origin": "http://localhost:3000"})
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("unexpected allow-origin: %q", got)
		}
	})

	t.Run("unknown origin gets no CORS headers", func(t *testing.T) {
		srv := newTestServer(t, token, false)
		rec := do(srv, http.MethodGet, "/health", map[string]string{"Origin": "http://evil.example"})
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("unexpected allow-origin: %q", got)
		}
	})

	t.Run("preflight is answered without auth", func(t *testing.T) {
		srv := newTestServer(t, token, true)
		rec := do(srv, http.MethodOptions, "/mcp", map[string]string{"Origin": "http://localhost:3000"})
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
	})
}
