// Package token issues and validates short-lived, scope-limited service
// tokens used for service-to-service calls through the gateway.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/ambi1303/Multi-Model-sub001/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "emotion-gateway"

// Claims are the JWT claims carried by a service token.
type Claims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// Authority issues and validates service tokens. Validation is a pure
// function over the token and key material, so one Authority may be
// shared across request goroutines without locking.
type Authority struct {
	signer     Signer
	defaultTTL time.Duration
	maxTTL     time.Duration
}

// NewAuthority creates a token authority with the given signer and TTL
// bounds. Requested TTLs are clamped to maxTTL; zero means defaultTTL.
func NewAuthority(signer Signer, defaultTTL, maxTTL time.Duration) *Authority {
	return &Authority{signer: signer, defaultTTL: defaultTTL, maxTTL: maxTTL}
}

// Issue creates a signed token for subject with the given scopes.
func (a *Authority) Issue(subject string, scopes []string, ttl time.Duration) (*domain.ServiceToken, error) {
	if subject == "" {
		return nil, &domain.ErrValidation{Field: "subject", Message: "must not be empty"}
	}
	if len(scopes) == 0 {
		return nil, &domain.ErrValidation{Field: "scopes", Message: "must not be empty"}
	}

	if ttl <= 0 {
		ttl = a.defaultTTL
	}
	if ttl > a.maxTTL {
		ttl = a.maxTTL
	}

	now := time.Now()
	claims := Claims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := a.signer.Sign(claims)
	if err != nil {
		return nil, fmt.Errorf("sign service token: %w", err)
	}

	return &domain.ServiceToken{
		Subject:   subject,
		Scopes:    scopes,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
		Signed:    signed,
	}, nil
}

// Validate verifies the raw token and returns its decoded form.
// Failures classify into expired / invalid signature / malformed; an
// expired token is never implicitly renewed.
func (a *Authority) Validate(raw string) (*domain.ServiceToken, error) {
	claims := &Claims{}
	tok, err := a.signer.Parse(raw, claims)
	if err != nil {
		return nil, &domain.ErrUnauthorized{
			Reason:  classify(err),
			Message: "invalid service token",
		}
	}
	if !tok.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, &domain.ErrUnauthorized{
			Reason:  domain.TokenMalformed,
			Message: "invalid service token",
		}
	}

	issuedAt := time.Time{}
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}

	return &domain.ServiceToken{
		Subject:   claims.Subject,
		Scopes:    claims.Scopes,
		IssuedAt:  issuedAt,
		ExpiresAt: claims.ExpiresAt.Time,
		Signed:    raw,
	}, nil
}

func classify(err error) domain.TokenFailure {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.TokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.TokenInvalidSignature
	default:
		return domain.TokenMalformed
	}
}
