package middleware

import (
	"net/http"
	"strings"

	"raildash/internal/auth"
	"raildash/internal/logging"
)

// AuthMiddleware validates the Bearer token on incoming requests and
// attaches the parsed claims to the request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")
			claims, err := auth.ParseToken(secret, tokenString)
			if err != nil {
				logging.Warn("Token rejected", "error", err.Error(), "path", r.URL.Path)
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireEditor rejects requests whose authenticated role cannot modify
// planning data. Must run after AuthMiddleware.
func RequireEditor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		if !claims.Role.CanEdit() {
			http.Error(w, "insufficient role", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
