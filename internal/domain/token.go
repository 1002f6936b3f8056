package domain

import "time"

// ============================================================
// Service-to-service tokens
// ============================================================

// ServiceToken is the decoded form of a signed service credential.
// The wire form is a compact JWT carried as "Authorization: Bearer".
type ServiceToken struct {
	Subject   string    `json:"subject"`
	Scopes    []string  `json:"scopes"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Signed    string    `json:"token"`
}

// HasScope reports whether the token authorizes calls to the named service.
func (t *ServiceToken) HasScope(scope string) bool {
	for _, s := range t.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// TokenRequest is the body of POST /auth/token.
type TokenRequest struct {
	Subject    string   `json:"subject"`
	Scopes     []string `json:"scopes"`
	TTLSeconds int      `json:"ttlSeconds,omitempty"`
}

// TokenResponse is returned by POST /auth/token.
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}
