// Package middleware implements the HTTP middleware stack, grounded on
// SPEC_FULL.md §12's recovery of crates/motiva/src/api/mod.rs's layer
// order: request-id generation, structured request logging (slog,
// teacher idiom per internal/logging), a request timeout, and
// route-scoped bearer auth.
package middleware

import (
	"bytes"
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestID assigns a UUID to every request, exposes it via context and
// the X-Request-ID response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the request id set by RequestID, or "" if
// absent.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Logging emits one structured log line per request via logger, matching
// the teacher's slog idiom rather than a bespoke access-log format.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logger.Info("http_request",
				"request_id", RequestIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// bufferedWriter buffers a handler's headers and body in memory instead
// of writing directly to the real ResponseWriter, the same shape
// net/http's own TimeoutHandler uses internally to make it safe for the
// timed-out goroutine to keep running after the deadline fires: once
// timedOut flips, further writes are silently discarded instead of
// racing the real ResponseWriter, which Timeout itself has by then
// written the 408 response to.
type bufferedWriter struct {
	mu         sync.Mutex
	header     http.Header
	body       bytes.Buffer
	statusCode int
	timedOut   bool
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header), statusCode: http.StatusOK}
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timedOut {
		return len(p), nil
	}
	return b.body.Write(p)
}

func (b *bufferedWriter) WriteHeader(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timedOut {
		return
	}
	b.statusCode = status
}

func (b *bufferedWriter) flushTo(w http.ResponseWriter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, v := range b.header {
		w.Header()[k] = v
	}
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(b.body.Bytes())
}

// Timeout enforces d as a hard wall-clock budget per request; a handler
// still running when it elapses never gets to write to the real
// ResponseWriter, and the client receives 408 instead.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			buf := newBufferedWriter()
			done := make(chan struct{})
			panicked := make(chan any, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
						return
					}
					close(done)
				}()
				next.ServeHTTP(buf, r.WithContext(ctx))
			}()

			select {
			case <-done:
				buf.flushTo(w)
			case p := <-panicked:
				panic(p)
			case <-ctx.Done():
				buf.mu.Lock()
				buf.timedOut = true
				buf.mu.Unlock()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestTimeout)
				_, _ = w.Write([]byte(`{"error":"request timed out"}`))
			}
		})
	}
}

// Auth enforces a bearer token match against apiKey. A blank apiKey
// disables the check entirely (local/dev mode), matching
// crates/motiva/src/api/middlewares/auth.rs.
func Auth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid or missing bearer token"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
