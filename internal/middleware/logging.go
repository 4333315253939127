package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"tacticalops/clanhub/internal/common"
	"tacticalops/clanhub/internal/logging"
)

// Recoverer logs panics with the request id and answers 500.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logging.Error("Panic while serving request",
					"request_id", RequestIDFrom(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				common.RespondError(w, start, nil, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
