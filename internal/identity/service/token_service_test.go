package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vitalpoint/identity/internal/identity/domain"
	"github.com/vitalpoint/identity/internal/identity/service"
	"github.com/vitalpoint/identity/pkg/jwtx"
)

// signExpired mints a token whose expiry is already in the past.
func signExpired(t *testing.T, d *testDeps) string {
	t.Helper()
	claims := jwtx.NewSessionClaims("acct-1", "standard", "a@example.com",
		true, time.Minute, "identity-test", time.Now().Add(-time.Hour))
	token, err := d.Signer.Sign(claims)
	require.NoError(t, err)
	return token
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	account := domain.Account{ID: "acct-1", Role: domain.RoleStandard, Email: "a@example.com"}

	full, err := d.Tokens.IssueFull(account)
	require.NoError(t, err)
	claims, kind, err := d.Tokens.Verify(ctx, full)
	require.NoError(t, err)
	require.Equal(t, domain.SessionFull, kind)
	require.Equal(t, "acct-1", claims.Subject)
	require.Equal(t, "standard", claims.Role)
	require.True(t, claims.SecondFactor)

	pending, err := d.Tokens.IssuePending(account)
	require.NoError(t, err)
	claims, kind, err = d.Tokens.Verify(ctx, pending)
	require.NoError(t, err)
	require.Equal(t, domain.SessionPending, kind)
	require.False(t, claims.SecondFactor)
}

func TestTokenService_Expired(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	token := signExpired(t, d)

	_, _, err := d.Tokens.Verify(ctx, token)
	require.ErrorIs(t, err, service.ErrTokenExpired)
}

func TestTokenService_Garbage(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	_, _, err := d.Tokens.Verify(ctx, "not.a.token")
	require.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestTokenService_RevokedBeatsExpired(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	token := signExpired(t, d)

	require.NoError(t, d.Tokens.Revoke(ctx, token))

	// The ledger is consulted before the codec, so a revoked-but-expired
	// token reports revoked.
	_, _, err := d.Tokens.Verify(ctx, token)
	require.ErrorIs(t, err, service.ErrTokenRevoked)
}

func TestTokenService_RevokeUnparseable(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	// A token we cannot parse still lands in the ledger.
	require.NoError(t, d.Tokens.Revoke(ctx, "garbage-token"))

	_, _, err := d.Tokens.Verify(ctx, "garbage-token")
	require.ErrorIs(t, err, service.ErrTokenRevoked)
}
