package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avezina/sumbench/internal/gauss"
)

func newTestServer() *Server {
	return New("127.0.0.1:0", gauss.NewDefaultFactory(), newTestLogger())
}

// serve routes a request through the full middleware chain.
func serve(s *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	rec := httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rec, req)
	return rec
}

// TestServer_handleHealth tests the liveness probe.
func TestServer_handleHealth(t *testing.T) {
	s := newTestServer()

	t.Run("GET returns ok", func(t *testing.T) {
		rec := serve(s, "GET", "/healthz")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var resp healthResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON body: %v", err)
		}
		if resp.Status != "ok" {
			t.Errorf("status field = %q, want %q", resp.Status, "ok")
		}
	})

	t.Run("HEAD is allowed", func(t *testing.T) {
		rec := serve(s, "HEAD", "/healthz")
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("POST returns method not allowed", func(t *testing.T) {
		rec := serve(s, "POST", "/healthz")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
		}
		if got := rec.Header().Get("Allow"); got != "GET, HEAD" {
			t.Errorf("Allow = %q, want %q", got, "GET, HEAD")
		}
	})
}

// TestServer_unknownPath tests that unrouted paths return 404.
func TestServer_unknownPath(t *testing.T) {
	s := newTestServer()

	for _, path := range []string{"/", "/nope", "/metrics/extra"} {
		rec := serve(s, "GET", path)
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s: status = %d, want %d", path, rec.Code, http.StatusNotFound)
		}
	}
}

// TestServer_handleSum tests the on-demand compute endpoint.
func TestServer_handleSum(t *testing.T) {
	s := newTestServer()

	t.Run("Computes the triangular number", func(t *testing.T) {
		rec := serve(s, "GET", "/sum?n=1000")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp sumResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON body: %v", err)
		}
		if resp.Value != "500500" {
			t.Errorf("value = %q, want %q", resp.Value, "500500")
		}
		if resp.Digits != 6 {
			t.Errorf("digits = %d, want 6", resp.Digits)
		}
		if resp.Strategy != gauss.KeyFormula {
			t.Errorf("strategy = %q, want default %q", resp.Strategy, gauss.KeyFormula)
		}
	})

	t.Run("Iterative strategy on request", func(t *testing.T) {
		rec := serve(s, "GET", "/sum?n=100&algo=iter")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var resp sumResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON body: %v", err)
		}
		if resp.Value != "5050" {
			t.Errorf("value = %q, want %q", resp.Value, "5050")
		}
	})

	t.Run("Missing n is rejected", func(t *testing.T) {
		rec := serve(s, "GET", "/sum")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("Oversized n is rejected", func(t *testing.T) {
		rec := serve(s, "GET", "/sum?n=1000000001")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
		if !strings.Contains(rec.Body.String(), "maximum") {
			t.Errorf("body should name the limit, got: %s", rec.Body.String())
		}
	})

	t.Run("Unknown strategy is rejected", func(t *testing.T) {
		rec := serve(s, "GET", "/sum?n=10&algo=quantum")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("POST returns method not allowed", func(t *testing.T) {
		rec := serve(s, "POST", "/sum?n=10")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
		}
	})
}

// TestServer_securityHeadersOnRoutes verifies the middleware wraps the
// real handler chain.
func TestServer_securityHeadersOnRoutes(t *testing.T) {
	s := newTestServer()

	rec := serve(s, "GET", "/healthz")
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers should be set on routed responses")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("default CORS headers should be set on routed responses")
	}
}

// TestServer_Run tests the errgroup lifecycle against a real listener.
func TestServer_Run(t *testing.T) {
	s := newTestServer()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	// Give ListenAndServe a moment to bind before shutting down.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil after graceful shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
