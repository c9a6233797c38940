package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/username/momoledger/src/logger"
	"github.com/username/momoledger/src/security"
	"github.com/username/momoledger/src/utils"
)

type contextKey string

const (
	userContextKey      contextKey = "user"
	requestIDContextKey contextKey = "requestID"
)

// GetUserFromContext returns the authenticated username placed in the
// context by AuthMiddleware.
func GetUserFromContext(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(userContextKey).(string)
	return user, ok
}

// ContextualLoggerMiddleware attaches a request-scoped logger carrying a
// generated request ID.
func ContextualLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()

		ctxLogger := logger.L.With(slog.String("requestID", requestID))

		ctx := logger.ToContext(r.Context(), ctxLogger)
		ctx = context.WithValue(ctx, requestIDContextKey, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthMiddleware validates the Authorization header before any store
// operation is reached. Denial short-circuits with 401; the store never
// sees unauthenticated traffic.
func (h *AuthHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger := logger.FromContext(r.Context())

		user, err := h.authService.Authenticate(r.Header.Get("Authorization"))
		if err != nil {
			switch {
			case errors.Is(err, security.ErrMissingAuthorization):
				ctxLogger.Debug("AuthMiddleware: Authorization header missing", "path", r.URL.Path)
			default:
				ctxLogger.Warn("AuthMiddleware: authentication failed", "path", r.URL.Path, "error", err)
			}
			utils.SendJSONError(w, err.Error(), http.StatusUnauthorized)
			return
		}

		enrichedLogger := ctxLogger.With(slog.String("user", user))
		ctx := logger.ToContext(r.Context(), enrichedLogger)
		ctx = context.WithValue(ctx, userContextKey, user)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
