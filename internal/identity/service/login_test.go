package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vitalpoint/identity/internal/identity/domain"
	"github.com/vitalpoint/identity/internal/identity/service"
	"github.com/vitalpoint/identity/internal/identity/store"
)

func TestLogin(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	id := registerVerified(t, d, "log@example.com", "log1", "longenough")

	res, err := d.Login.Login(ctx, "log@example.com", "longenough")
	require.NoError(t, err)
	require.False(t, res.SecondFactorRequired)
	require.NotEmpty(t, res.Token)

	claims, kind, err := d.Tokens.Verify(ctx, res.Token)
	require.NoError(t, err)
	require.Equal(t, domain.SessionFull, kind)
	require.Equal(t, id, claims.Subject)

	// Username works as identifier too.
	res, err = d.Login.Login(ctx, "log1", "longenough")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
}

func TestLogin_Failures(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	id := registerVerified(t, d, "lf@example.com", "lf1", "longenough")

	_, err := d.Login.Login(ctx, "nobody@example.com", "longenough")
	require.ErrorIs(t, err, service.ErrAccountNotFound)

	_, err = d.Login.Login(ctx, "lf@example.com", "wrongpassword")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	require.NoError(t, d.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Accounts().SoftDeleteAccount(ctx, id)
	}))
	_, err = d.Login.Login(ctx, "lf@example.com", "longenough")
	require.ErrorIs(t, err, service.ErrAccountNotFound, "soft-deleted accounts present as absent")
}

func TestLogin_UnverifiedAccount(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	_, err := d.Registration.Register(ctx, "Ann", "unv1", "unv@example.com", "longenough")
	require.NoError(t, err)

	_, err = d.Login.Login(ctx, "unv@example.com", "longenough")
	require.ErrorIs(t, err, service.ErrVerificationPending)
}

func TestLogin_SecondFactorChallenge(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	id := registerVerified(t, d, "2fa@example.com", "tfa1", "longenough")
	enableTwoFactor(t, d, id)

	res, err := d.Login.Login(ctx, "2fa@example.com", "longenough")
	require.NoError(t, err)
	require.True(t, res.SecondFactorRequired)
	require.NotEmpty(t, res.Token)

	_, kind, err := d.Tokens.Verify(ctx, res.Token)
	require.NoError(t, err)
	require.Equal(t, domain.SessionPending, kind, "password alone yields a pending session")

	msg := d.Mailer.Last(t)
	require.Equal(t, "2fa@example.com", msg.To)
	require.Len(t, extractCode(t, msg), 6)

	account, err := d.Store.Accounts().GetAccountByID(ctx, id)
	require.NoError(t, err)
	require.True(t, account.TwoFactor.ChallengeOutstanding())
}

func TestLogin_PendingEnrollmentDoesNotGate(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	id := registerVerified(t, d, "half@example.com", "half1", "longenough")

	// Begin enrollment but never confirm it.
	toggle, err := d.TwoFactor.Toggle(ctx, id)
	require.NoError(t, err)
	require.True(t, toggle.SetupPending)
	require.False(t, toggle.Enabled)

	res, err := d.Login.Login(ctx, "half@example.com", "longenough")
	require.NoError(t, err)
	require.False(t, res.SecondFactorRequired, "unconfirmed enrollment must not gate login")

	_, kind, err := d.Tokens.Verify(ctx, res.Token)
	require.NoError(t, err)
	require.Equal(t, domain.SessionFull, kind)
}

func TestLogout(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	id := registerVerified(t, d, "out@example.com", "out1", "longenough")

	res, err := d.Login.Login(ctx, "out@example.com", "longenough")
	require.NoError(t, err)

	require.NoError(t, d.Login.Logout(ctx, id, res.Token))

	_, _, err = d.Tokens.Verify(ctx, res.Token)
	require.ErrorIs(t, err, service.ErrTokenRevoked)

	// Logout is idempotent.
	require.NoError(t, d.Login.Logout(ctx, id, res.Token))

	actions := auditActions(t, d)
	require.Contains(t, actions, domain.AuditSessionRevoked)
}
