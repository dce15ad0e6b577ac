package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "clubevents/internal/delivery/http/helpers"
	"clubevents/internal/domain"
)

type contextKey string

const userIDKey contextKey = "userID"

// SetUserID returns a context carrying the acting user's id. Services receive
// it as actorID for admission checks.
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the actor id set by RequireAuth. Controllers treat
// a missing id as domain.ErrUnauthorized.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// RequireAuth guards every club, event, participation and channel route. The
// bearer token's subject becomes the actor id for the membership and role
// checks downstream; the middleware itself checks no club role. A missing,
// malformed or rejected token gets 401 with reason "unauthenticated" and next
// is not called.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				reject(w, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				reject(w, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				reject(w, "missing token")
				return
			}
			actorID, err := verifier.Verify(token)
			if err != nil || actorID == "" {
				logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "err", err)
				reject(w, "invalid or expired token")
				return
			}
			next(w, r.WithContext(SetUserID(r.Context(), actorID)))
		}
	}
}

func reject(w http.ResponseWriter, message string) {
	h.WriteAPIError(w, http.StatusUnauthorized, &h.APIError{
		Code:    h.ErrCodeUnauthorized,
		Reason:  "unauthenticated",
		Message: message,
	})
}
