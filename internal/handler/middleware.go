package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/ambi1303/Multi-Model-sub001/internal/domain"
	"github.com/ambi1303/Multi-Model-sub001/internal/port"

	"go.uber.org/zap"
)

type contextKey string

const serviceTokenKey contextKey = "serviceToken"

// ServiceTokenMiddleware validates Bearer service tokens and injects
// them into the request context. A present-but-invalid token is
// rejected here; an absent token passes through, and the dispatcher
// rejects it if the target service requires auth.
func ServiceTokenMiddleware(validator port.TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("auth: invalid token format",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "auth_error", "invalid authorization header format")
				return
			}

			tok, err := validator.Validate(parts[1])
			if err != nil {
				logger.Warn("auth: invalid or expired token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Error(err),
				)
				handleServiceError(w, err, logger)
				return
			}

			ctx := context.WithValue(r.Context(), serviceTokenKey, tok)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromContext extracts the validated service token, if any.
func TokenFromContext(ctx context.Context) *domain.ServiceToken {
	tok, _ := ctx.Value(serviceTokenKey).(*domain.ServiceToken)
	return tok
}
