package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ambi1303/Multi-Model-sub001/internal/domain"
	"github.com/ambi1303/Multi-Model-sub001/internal/token"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// issueTokenHandler mints service tokens. The route is privileged:
// callers must present the admin key, checked against its bcrypt hash
// from config. With no hash configured the route is unavailable rather
// than open.
func issueTokenHandler(authority *token.Authority, adminKeyHash string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if adminKeyHash == "" {
			writeError(w, http.StatusServiceUnavailable, "auth_error", "token issuance not configured")
			return
		}

		adminKey := r.Header.Get("X-Admin-Key")
		if adminKey == "" || bcrypt.CompareHashAndPassword([]byte(adminKeyHash), []byte(adminKey)) != nil {
			logger.Warn("token issuance: bad admin credential",
				zap.String("remote_addr", r.RemoteAddr),
			)
			writeError(w, http.StatusUnauthorized, "auth_error", "invalid admin credential")
			return
		}

		var req domain.TokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
			return
		}

		issued, err := authority.Issue(req.Subject, req.Scopes, time.Duration(req.TTLSeconds)*time.Second)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		logger.Info("service token issued",
			zap.String("subject", issued.Subject),
			zap.Strings("scopes", issued.Scopes),
			zap.Time("expires_at", issued.ExpiresAt),
		)
		writeJSON(w, http.StatusOK, domain.TokenResponse{
			Token:     issued.Signed,
			TokenType: "Bearer",
			ExpiresAt: issued.ExpiresAt,
		})
	}
}
