package metrics

import (
	"net/http"
	"strconv"
	"time"
)

// Middleware returns HTTP middleware for request metrics.
func Middleware(next http.Handler) http.Handler {
	if !enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			duration := time.Since(start).Seconds()
			path := normalizePath(r.URL.Path)

			httpRequestsTotal.WithLabelValues(
				r.Method,
				path,
				strconv.Itoa(rw.status),
			).Inc()

			httpDuration.WithLabelValues(
				r.Method,
				path,
			).Observe(duration)
		}()

		next.ServeHTTP(rw, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures status code.
func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

// knownPaths are reported as-is.
var knownPaths = map[string]bool{
	"/":          true,
	"/api/frame": true,
	"/health":    true,
	"/healthz":   true,
	"/readyz":    true,
	"/metrics":   true,
}

// normalizePath collapses everything outside the known routes, static
// assets and scanner noise alike, into one label. For example:
//
//	/api/frame -> /api/frame
//	/nft.jpg   -> /{asset}
func normalizePath(path string) string {
	if knownPaths[path] {
		return path
	}
	return "/{asset}"
}
