package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"opto-backend/internal/auth"
	"opto-backend/internal/config"
	"opto-backend/internal/utils"
)

// contextKey is a private type so nothing outside this package can collide
// with the keys it sets.
type contextKey string

const ctxKeyUserID contextKey = "user_id"

// UserIDFromContext returns the authenticated user id set by AuthMiddleware.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKeyUserID).(uuid.UUID)
	return id, ok
}

// AuthMiddleware validates the bearer token in the Authorization header and
// attaches the resolved user id to the request context. A missing or
// malformed header is rejected before the verifier is ever called, and every
// failure gets the same generic 401.
func AuthMiddleware(next http.HandlerFunc, cfg *config.JWTConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
			return
		}

		// Extract token from "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
			return
		}

		userID, err := auth.VerifySessionToken(tokenParts[1], cfg)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUserID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
