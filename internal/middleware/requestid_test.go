package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Strob0t/LabelForge/internal/logger"
)

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen == "" {
		t.Fatal("expected generated request ID in context")
	}
	if rec.Header().Get("X-Request-ID") != seen {
		t.Fatalf("expected response header to match context ID %q, got %q", seen, rec.Header().Get("X-Request-ID"))
	}
	if len(seen) != 32 {
		t.Fatalf("expected 32-char hex ID, got %q", seen)
	}
}

func TestRequestID_PropagatesExisting(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("X-Request-ID", "req-from-client")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "req-from-client" {
		t.Fatalf("expected client request ID, got %q", seen)
	}
	if rec.Header().Get("X-Request-ID") != "req-from-client" {
		t.Fatalf("expected echoed header, got %q", rec.Header().Get("X-Request-ID"))
	}
}
