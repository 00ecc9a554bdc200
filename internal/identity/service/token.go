package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vitalpoint/identity/internal/identity/domain"
	"github.com/vitalpoint/identity/internal/identity/store"
	"github.com/vitalpoint/identity/pkg/cryptox"
	"github.com/vitalpoint/identity/pkg/jwtx"
)

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// TokenService issues and validates session tokens and maintains the
// revocation ledger. Pending tokens carry sfa=false and a short TTL; full
// tokens carry sfa=true (or the account has no second factor) and the long
// TTL.
type TokenService struct {
	Store    store.Store
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string

	FullTTL    time.Duration
	PendingTTL time.Duration
}

func (s *TokenService) fullTTL() time.Duration {
	if s.FullTTL > 0 {
		return s.FullTTL
	}
	return jwtx.DefaultFullSessionTTL
}

func (s *TokenService) pendingTTL() time.Duration {
	if s.PendingTTL > 0 {
		return s.PendingTTL
	}
	return jwtx.DefaultPendingSessionTTL
}

// IssueFull mints a full-privilege session token for the account.
func (s *TokenService) IssueFull(a domain.Account) (string, error) {
	claims := jwtx.NewSessionClaims(a.ID, string(a.Role), a.Email, true, s.fullTTL(), s.Issuer, time.Now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// IssuePending mints a short-lived pending token. Its only valid use is the
// second-factor verification endpoints.
func (s *TokenService) IssuePending(a domain.Account) (string, error) {
	claims := jwtx.NewSessionClaims(a.ID, string(a.Role), a.Email, false, s.pendingTTL(), s.Issuer, time.Now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign pending token: %w", err)
	}
	return token, nil
}

// Verify checks the ledger first, then the signature and standard claims.
// The ledger check precedes signature validation so a revoked-but-expired
// token still reports revoked.
func (s *TokenService) Verify(ctx context.Context, token string) (jwtx.Claims, domain.SessionKind, error) {
	revoked, err := s.Store.RevokedTokens().IsTokenRevoked(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		return jwtx.Claims{}, domain.SessionPending, fmt.Errorf("failed to check revocation ledger: %w", err)
	}
	if revoked {
		return jwtx.Claims{}, domain.SessionPending, ErrTokenRevoked
	}

	claims, err := s.Verifier.Verify(token)
	if err != nil {
		switch {
		case errors.Is(err, jwtx.ErrExpired):
			return jwtx.Claims{}, domain.SessionPending, ErrTokenExpired
		default:
			return jwtx.Claims{}, domain.SessionPending, ErrTokenInvalid
		}
	}

	kind := domain.SessionPending
	if claims.SecondFactor {
		kind = domain.SessionFull
	}
	return claims, kind, nil
}

// Revoke records the token's fingerprint in the ledger. The entry carries
// the token's own expiry so housekeeping can drop it once the codec would
// reject the token anyway. Revoking an already-revoked token is a no-op.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	// Claims are best-effort here: a token we cannot parse still gets a
	// ledger entry, with a conservative expiry of the full session TTL.
	expiresAt := time.Now().Add(s.fullTTL())
	if claims, err := s.Verifier.Verify(token); err == nil {
		if t := claims.ExpiresAtTime(); !t.IsZero() {
			expiresAt = t
		}
	}

	if err := s.Store.RevokedTokens().RevokeToken(ctx, cryptox.FingerprintToken(token), expiresAt); err != nil {
		return fmt.Errorf("failed to record revocation: %w", err)
	}
	return nil
}
