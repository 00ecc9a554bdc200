package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default session lifetimes. A pending token exists only to carry the caller
// across the second-factor step; a full token is the normal session credential.
const (
	// DefaultFullSessionTTL is the lifetime of a session whose second factor
	// (if any) has been satisfied.
	DefaultFullSessionTTL = 24 * time.Hour

	// DefaultPendingSessionTTL is the lifetime of a session issued after
	// password verification while a second-factor challenge is outstanding.
	// It matches the challenge expiry.
	DefaultPendingSessionTTL = 10 * time.Minute
)

// Claims are the session-token claims. The subject is the account ID; the
// sfa flag records whether the second factor has been satisfied.
type Claims struct {
	jwt.RegisteredClaims

	// Role of the account at issuance time ("standard", "provider",
	// "administrator").
	Role string `json:"role,omitempty"`

	// Email of the account, for delivery addressing without a store lookup.
	Email string `json:"email,omitempty"`

	// SecondFactor is true once the second factor has been satisfied (or the
	// account has none). A token with SecondFactor=false is a pending token.
	SecondFactor bool `json:"sfa"`
}

// NewSessionClaims builds minimally-correct session claims.
func NewSessionClaims(
	subject, role, email string,
	secondFactor bool,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Role:         role,
		Email:        email,
		SecondFactor: secondFactor,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}

// ExpiresAtTime returns the embedded expiry, or the zero time when absent.
// The revocation ledger records this alongside the token fingerprint so
// entries can be purged once moot.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
