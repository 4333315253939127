package middleware

import (
	"net/http"
	"time"

	"tacticalops/clanhub/internal/auth"
	"tacticalops/clanhub/internal/common"
)

// IsAdminMiddleware must run after AuthMiddleware.
func IsAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())

			if claims == nil || !claims.IsAdmin() {
				common.RespondError(w, time.Now(), nil, "Forbidden. Admin access required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
