package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vitalpoint/identity/internal/identity/domain"
	"github.com/vitalpoint/identity/internal/identity/store"
	"github.com/vitalpoint/identity/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.Join(t.TempDir(), "test.db"))
	s, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func testAccount(email, username string) domain.Account {
	now := time.Now().UTC().Truncate(time.Second)
	code := "123456"
	expiry := now.Add(5 * time.Minute)
	return domain.Account{
		ID:                    idx.New().String(),
		Name:                  "Test Person",
		Username:              username,
		Email:                 email,
		PasswordHash:          "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		VerificationCode:      &code,
		VerificationExpiresAt: &expiry,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

func TestAccounts_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testAccount("ann@example.com", "ann1")
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	byID, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, a.Email, byID.Email)
	require.NotNil(t, byID.VerificationCode)
	require.Equal(t, "123456", *byID.VerificationCode)
	require.False(t, byID.Verified)

	byEmail, err := s.Accounts().GetAccountByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.Equal(t, a.ID, byEmail.ID)

	byUsername, err := s.Accounts().GetAccountByIdentifier(ctx, "ann1")
	require.NoError(t, err)
	require.Equal(t, a.ID, byUsername.ID)

	_, err = s.Accounts().GetAccountByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAccounts_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Accounts().CreateAccount(ctx, testAccount("dup@example.com", "dup1")))

	err := s.Accounts().CreateAccount(ctx, testAccount("dup@example.com", "dup2"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	err = s.Accounts().CreateAccount(ctx, testAccount("other@example.com", "dup1"))
	require.ErrorIs(t, err, store.ErrAlreadyExists, "username is unique too")
}

func TestAccounts_MarkVerified(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testAccount("v@example.com", "v1")
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	require.NoError(t, s.Accounts().MarkVerified(ctx, a.ID, domain.RoleProvider, domain.ProviderStatusPending))

	got, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, got.Verified)
	require.True(t, got.EmailVerified)
	require.Equal(t, domain.RoleProvider, got.Role)
	require.Equal(t, domain.ProviderStatusPending, got.ProviderStatus)
	require.Nil(t, got.VerificationCode, "code fields cleared")
	require.Nil(t, got.VerificationExpiresAt)

	// Second verification must fail
	err = s.Accounts().MarkVerified(ctx, a.ID, domain.RoleStandard, domain.ProviderStatusNone)
	require.ErrorIs(t, err, store.ErrAlreadyVerified)

	err = s.Accounts().MarkVerified(ctx, idx.New().String(), domain.RoleStandard, domain.ProviderStatusNone)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAccounts_TwoFactorLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testAccount("tf@example.com", "tf1")
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	expiry := time.Now().UTC().Add(10 * time.Minute).Truncate(time.Second)
	require.NoError(t, s.Accounts().BeginTwoFactorSetup(ctx, a.ID, "654321", expiry))

	got, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.False(t, got.TwoFactor.Enabled)
	require.True(t, got.TwoFactor.SetupPending)
	require.True(t, got.TwoFactor.ChallengeOutstanding())

	require.NoError(t, s.Accounts().CompleteTwoFactorSetup(ctx, a.ID))
	got, err = s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, got.TwoFactor.Enabled)
	require.False(t, got.TwoFactor.SetupPending)
	require.False(t, got.TwoFactor.ChallengeOutstanding())

	require.NoError(t, s.Accounts().SetTwoFactorChallenge(ctx, a.ID, "111222", expiry))
	got, err = s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, got.TwoFactor.ChallengeOutstanding())

	require.NoError(t, s.Accounts().ClearTwoFactorChallenge(ctx, a.ID))
	got, err = s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.False(t, got.TwoFactor.ChallengeOutstanding())

	require.NoError(t, s.Accounts().DisableTwoFactor(ctx, a.ID))
	got, err = s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.False(t, got.TwoFactor.Enabled)
}

func TestAccounts_UpdateProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testAccount("p@example.com", "p1")
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	name := "New Name"
	age := 42
	require.NoError(t, s.Accounts().UpdateProfile(ctx, a.ID, domain.ProfileUpdate{
		Name: &name,
		Age:  &age,
	}))

	got, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "New Name", got.Name)
	require.NotNil(t, got.Age)
	require.Equal(t, 42, *got.Age)
	require.Equal(t, "p1", got.Username, "untouched fields stay put")

	// Empty update is a no-op
	require.NoError(t, s.Accounts().UpdateProfile(ctx, a.ID, domain.ProfileUpdate{}))
}

func TestAccounts_SoftDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testAccount("del@example.com", "del1")
	a.Contact = "0400 000 000"
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	require.NoError(t, s.Accounts().SoftDeleteAccount(ctx, a.ID))

	got, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err, "row is retained")
	require.True(t, got.Deleted)
	require.NotNil(t, got.DeletedAt)
	require.Empty(t, got.Contact, "contact details scrubbed")

	// Deleting twice fails: the guard is is_deleted = FALSE
	err = s.Accounts().SoftDeleteAccount(ctx, a.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAccounts_DeleteExpiredUnverified(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stale := testAccount("stale@example.com", "stale1")
	pastExpiry := time.Now().UTC().Add(-time.Minute)
	stale.VerificationExpiresAt = &pastExpiry
	require.NoError(t, s.Accounts().CreateAccount(ctx, stale))

	fresh := testAccount("fresh@example.com", "fresh1")
	require.NoError(t, s.Accounts().CreateAccount(ctx, fresh))

	verified := testAccount("done@example.com", "done1")
	require.NoError(t, s.Accounts().CreateAccount(ctx, verified))
	require.NoError(t, s.Accounts().MarkVerified(ctx, verified.ID, domain.RoleStandard, domain.ProviderStatusNone))

	n, err := s.Accounts().DeleteExpiredUnverified(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = s.Accounts().GetAccountByID(ctx, stale.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Accounts().GetAccountByID(ctx, fresh.ID)
	require.NoError(t, err)
	_, err = s.Accounts().GetAccountByID(ctx, verified.ID)
	require.NoError(t, err)
}

func TestRecoveryCodes_ReplaceListConsume(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testAccount("rc@example.com", "rc1")
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	hashes := []string{"hash-a", "hash-b", "hash-c"}
	require.NoError(t, s.RecoveryCodes().ReplaceRecoveryCodes(ctx, a.ID, hashes))

	codes, err := s.RecoveryCodes().ListRecoveryCodes(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, codes, 3)
	for i, c := range codes {
		require.Equal(t, hashes[i], c.CodeHash, "stored order preserved")
		require.False(t, c.Used)
	}

	consumed, err := s.RecoveryCodes().ConsumeRecoveryCode(ctx, codes[1].ID)
	require.NoError(t, err)
	require.True(t, consumed)

	// Second consumption of the same entry fails the guard
	consumed, err = s.RecoveryCodes().ConsumeRecoveryCode(ctx, codes[1].ID)
	require.NoError(t, err)
	require.False(t, consumed)

	// Replacing discards the old set entirely
	require.NoError(t, s.RecoveryCodes().ReplaceRecoveryCodes(ctx, a.ID, []string{"hash-new"}))
	codes, err = s.RecoveryCodes().ListRecoveryCodes(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, codes, 1)
	require.Equal(t, "hash-new", codes[0].CodeHash)
}

func TestRecoveryCodes_ConcurrentConsume(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testAccount("race@example.com", "race1")
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))
	require.NoError(t, s.RecoveryCodes().ReplaceRecoveryCodes(ctx, a.ID, []string{"hash-x"}))

	codes, err := s.RecoveryCodes().ListRecoveryCodes(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, codes, 1)

	const workers = 10
	var wg sync.WaitGroup
	wins := make(chan bool, workers)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			consumed, err := s.RecoveryCodes().ConsumeRecoveryCode(ctx, codes[0].ID)
			if err == nil && consumed {
				wins <- true
			}
		}()
	}
	wg.Wait()
	close(wins)

	total := 0
	for range wins {
		total++
	}
	require.Equal(t, 1, total, "exactly one concurrent consumer may win")
}

func TestRevokedTokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	expiry := time.Now().UTC().Add(time.Hour)

	revoked, err := s.RevokedTokens().IsTokenRevoked(ctx, "fp-1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, s.RevokedTokens().RevokeToken(ctx, "fp-1", expiry))
	// Idempotent
	require.NoError(t, s.RevokedTokens().RevokeToken(ctx, "fp-1", expiry))

	revoked, err = s.RevokedTokens().IsTokenRevoked(ctx, "fp-1")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestRevokedTokens_PurgeExpired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, s.RevokedTokens().RevokeToken(ctx, "fp-old", now.Add(-time.Hour)))
	require.NoError(t, s.RevokedTokens().RevokeToken(ctx, "fp-live", now.Add(time.Hour)))

	n, err := s.RevokedTokens().DeleteExpiredRevocations(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	revoked, err := s.RevokedTokens().IsTokenRevoked(ctx, "fp-live")
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = s.RevokedTokens().IsTokenRevoked(ctx, "fp-old")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestAuditLog_AppendAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	for i := range 3 {
		require.NoError(t, s.AuditLog().AppendAuditEntry(ctx, domain.AuditEntry{
			Action:      domain.AuditLoginSucceeded,
			PerformedBy: "acct-1",
			Details:     map[string]any{"n": float64(i)},
			CreatedAt:   now.Add(time.Duration(i) * time.Second),
		}))
	}

	entries, err := s.AuditLog().ListAuditEntries(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, e := range entries {
		require.Equal(t, domain.AuditLoginSucceeded, e.Action)
		require.Equal(t, "acct-1", e.PerformedBy)
		require.Equal(t, float64(i), e.Details["n"], "chronological order")
	}

	page, err := s.AuditLog().ListAuditEntries(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, float64(1), page[0].Details["n"])
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testAccount("tx@example.com", "tx1")

	sentinel := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().CreateAccount(ctx, a); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, err = s.Accounts().GetAccountByID(ctx, a.ID)
	require.ErrorIs(t, err, store.ErrNotFound, "insert must be rolled back")
}

func TestWithTx_Commits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testAccount("tx2@example.com", "tx2")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().CreateAccount(ctx, a); err != nil {
			return err
		}
		return tx.AuditLog().AppendAuditEntry(ctx, domain.AuditEntry{
			Action:      domain.AuditRegistrationCreated,
			PerformedBy: a.ID,
			CreatedAt:   time.Now().UTC(),
		})
	})
	require.NoError(t, err)

	_, err = s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)

	entries, err := s.AuditLog().ListAuditEntries(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
