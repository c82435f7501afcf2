// Package middleware provides HTTP middleware shared across the
// LabelForge API surface.
package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/Strob0t/LabelForge/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a correlation ID to every request: the client's
// X-Request-ID when present, a fresh random one otherwise. The ID is
// stored on the context for log correlation and echoed on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			buf := make([]byte, 16)
			_, _ = rand.Read(buf)
			id = hex.EncodeToString(buf)
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}
