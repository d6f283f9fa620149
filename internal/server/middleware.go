// This file implements the request numbering middleware.
// Implements: prd006-calculator-api R2 (request numbering, correlation IDs).
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/abacus/internal/logging"
)

type ctxKey int

const requestNumberKey ctxKey = iota

// numbered assigns each request its number and correlation ID, logs the
// incoming line, and logs the duration line on completion. PUT /logs/level
// is exempt from the duration line; its handler logs one itself so the line
// obeys the level the request just set.
func (s *Server) numbered(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		number := s.requests.Add(1)
		start := time.Now()

		w.Header().Set("X-Request-ID", correlationID())

		log := s.logs.Logger(logging.RequestLogger)
		log.Info(fmt.Sprintf("Incoming request | #%d | resource: %s | HTTP Verb %s",
			number, r.URL.Path, r.Method), "request", number)

		ctx := context.WithValue(r.Context(), requestNumberKey, number)
		next.ServeHTTP(w, r.WithContext(ctx))

		if r.URL.Path == "/logs/level" && r.Method == http.MethodPut {
			return
		}
		log.Debug(fmt.Sprintf("request #%d duration: %dms",
			number, time.Since(start).Milliseconds()), "request", number)
	})
}

// requestNumber returns the number the middleware assigned to this request,
// or 0 for requests that bypassed it.
func requestNumber(r *http.Request) uint64 {
	n, _ := r.Context().Value(requestNumberKey).(uint64)
	return n
}

// correlationID generates a UUID v7 for the X-Request-ID header, falling
// back to v4 if v7 generation fails.
func correlationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
