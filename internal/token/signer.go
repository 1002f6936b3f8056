package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer abstracts the token signing scheme so it can be swapped
// (HMAC today, asymmetric keys later) without touching the authority.
type Signer interface {
	// Sign produces the compact serialized token for the claims.
	Sign(claims jwt.Claims) (string, error)
	// Parse verifies the serialized token's signature and fills claims.
	Parse(raw string, claims jwt.Claims) (*jwt.Token, error)
}

// HMACSigner signs with HS256. It optionally honors the previous
// signing key until graceUntil, so tokens issued just before a key
// rotation keep verifying for the grace window.
type HMACSigner struct {
	key        []byte
	prevKey    []byte
	graceUntil time.Time
}

// NewHMACSigner creates an HS256 signer. prevSecret may be empty when
// no rotation is in progress.
func NewHMACSigner(secret, prevSecret string, grace time.Duration) *HMACSigner {
	s := &HMACSigner{key: []byte(secret)}
	if prevSecret != "" {
		s.prevKey = []byte(prevSecret)
		s.graceUntil = time.Now().Add(grace)
	}
	return s
}

func (s *HMACSigner) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

func (s *HMACSigner) Parse(raw string, claims jwt.Claims) (*jwt.Token, error) {
	tok, err := jwt.ParseWithClaims(raw, claims, s.keyFunc(s.key))
	if err == nil {
		return tok, nil
	}

	// Signature mismatch may mean the token predates a key rotation.
	if s.prevKey != nil && time.Now().Before(s.graceUntil) {
		if tok2, err2 := jwt.ParseWithClaims(raw, claims, s.keyFunc(s.prevKey)); err2 == nil {
			return tok2, nil
		}
	}
	return nil, err
}

func (s *HMACSigner) keyFunc(key []byte) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	}
}
