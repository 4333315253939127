package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"tacticalops/clanhub/internal/auth"
	"tacticalops/clanhub/internal/common"
)

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	Validate(token string) (*auth.JWTClaims, error)
}

// AuthMiddleware requires a valid bearer token and stores its claims in the
// request context.
func AuthMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			authHeader := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				common.RespondError(w, start, nil, "Unauthorized. Missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Validate(strings.TrimSpace(raw))
			if err != nil {
				msg := "Unauthorized. Invalid token"
				if errors.Is(err, auth.ErrExpiredToken) {
					msg = "Unauthorized. Token expired"
				}
				common.RespondError(w, start, nil, msg, http.StatusUnauthorized)
				return
			}

			setRequestUser(r.Context(), claims.UserID())
			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
