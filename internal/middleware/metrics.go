package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tacticalops/clanhub/internal/logging"
	"tacticalops/clanhub/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ctxKey string

const requestMetaKey ctxKey = "request_meta"

// requestMeta is shared by pointer so inner middleware can attach the
// authenticated user for the access log written by the outer one.
type requestMeta struct {
	id     string
	userID string
}

// MetricsMiddleware records HTTP metrics for each request
func MetricsMiddleware(metricsReg *metrics.MetricsRegistry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inFlight := metricsReg.HTTPRequestsInFlight.WithLabelValues(NormalizeEndpoint(r.URL.Path))
			inFlight.Inc()
			defer inFlight.Dec()

			start := time.Now()
			wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			// The pattern is only known once chi has routed the request.
			routePattern := "unknown"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				routePattern = rctx.RoutePattern()
			}

			duration := time.Since(start).Seconds()
			statusCode := strconv.Itoa(wrapped.statusCode)

			metricsReg.HTTPRequestsTotal.WithLabelValues(
				routePattern,
				r.Method,
				statusCode,
			).Inc()

			metricsReg.HTTPRequestDuration.WithLabelValues(
				routePattern,
				r.Method,
			).Observe(duration)

			var requestID, userID string
			if meta, ok := r.Context().Value(requestMetaKey).(*requestMeta); ok {
				requestID, userID = meta.id, meta.userID
			}
			logging.WithRequest(requestID, userID, routePattern).Infow(
				"HTTP request completed",
				"method", r.Method,
				"status_code", wrapped.statusCode,
				"duration_ms", int(duration*1000),
			)
		})
	}
}

// RequestIDMiddleware adds a request ID to the context if not present
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestMetaKey, &requestMeta{id: requestID})
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequestIDFrom(ctx context.Context) string {
	if meta, ok := ctx.Value(requestMetaKey).(*requestMeta); ok {
		return meta.id
	}
	return ""
}

func setRequestUser(ctx context.Context, userID string) {
	if meta, ok := ctx.Value(requestMetaKey).(*requestMeta); ok {
		meta.userID = userID
	}
}

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.written {
		r.statusCode = code
		r.written = true
		r.ResponseWriter.WriteHeader(code)
	}
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.statusCode = http.StatusOK
		r.written = true
	}
	return r.ResponseWriter.Write(b)
}

// NormalizeEndpoint replaces ids in a path so metric labels stay bounded,
// e.g. /api/v1/clans/<uuid>/join -> /api/v1/clans/{id}/join
func NormalizeEndpoint(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if isIDLike(part) {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

// isIDLike checks if a string looks like an ID (numeric or UUID)
func isIDLike(s string) bool {
	if s == "" {
		return false
	}
	if _, err := uuid.Parse(s); err == nil && len(s) == 36 {
		return true
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
