package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/clipstream/clipstream-server/internal/http/response"
	"github.com/clipstream/clipstream-server/internal/service"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyUserID contextKey = "user_id"

// identityMiddleware resolves the caller's identity and attaches the user
// ID to the request context. Identity arrives either as a raw user ID in
// the X-User-Id header or as a PASETO bearer token in the Authorization
// header; the bearer token wins when both are present. Requests with no
// identity pass through anonymously, but a presented identity that does
// not resolve is rejected outright.
func identityMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				token = strings.TrimSpace(r.Header.Get("X-User-Id"))
			}
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := auth.Resolve(r.Context(), token)
			if err != nil {
				response.Unauthorized(w, "Invalid or unknown identity", nil)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an Authorization header, or ""
// when the header is absent or not a Bearer scheme.
func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// getUserID extracts the authenticated user ID from request context.
// Returns empty string if not authenticated.
func getUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(contextKeyUserID).(string); ok {
		return userID
	}
	return ""
}

// requireUserID returns the authenticated user ID from context.
// Returns a 401 error if the request carried no valid identity.
func requireUserID(ctx context.Context) (string, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return "", huma.Error401Unauthorized("Authentication required")
	}
	return userID, nil
}
