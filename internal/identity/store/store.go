package store

import (
	"context"
	"errors"
	"time"

	"github.com/vitalpoint/identity/internal/identity/domain"
)

var (
	ErrNotFound        = errors.New("store: not found")
	ErrAlreadyExists   = errors.New("store: already exists")
	ErrAlreadyVerified = errors.New("store: already verified")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Accounts() Accounts
	RecoveryCodes() RecoveryCodes
	RevokedTokens() RevokedTokens
	AuditLog() AuditLog

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., clearing a
	// challenge and flipping the enrollment flag). The caller MUST call
	// Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to mutate an account: every read-modify-write of
	// verification or two-factor sub-state goes through exactly one
	// transaction so concurrent requests cannot interleave into a
	// half-state.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// CreateAccount inserts a new account (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email or username is taken.
	CreateAccount(ctx context.Context, a domain.Account) error

	// GetAccountByID returns an account by id.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByEmail looks up by normalized email.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// GetAccountByIdentifier is the login lookup: identifier may be either a
	// normalized email or a username.
	GetAccountByIdentifier(ctx context.Context, identifier string) (domain.Account, error)

	// DeleteAccount hard-deletes a row. Only used to purge expired
	// unverified registrations; verified accounts are soft-deleted instead.
	DeleteAccount(ctx context.Context, id string) error

	// MarkVerified locks the role, sets verified and email_verified, and
	// clears the verification code fields. Returns ErrAlreadyVerified when
	// the account is already verified.
	MarkVerified(ctx context.Context, id string, role domain.Role, providerStatus string) error

	// SetTwoFactorChallenge stores a fresh challenge code and its expiry.
	SetTwoFactorChallenge(ctx context.Context, id, code string, expiresAt time.Time) error

	// ClearTwoFactorChallenge removes the outstanding challenge, if any.
	ClearTwoFactorChallenge(ctx context.Context, id string) error

	// BeginTwoFactorSetup marks enrollment pending and stores the enrollment
	// challenge. Enabled stays false until CompleteTwoFactorSetup.
	BeginTwoFactorSetup(ctx context.Context, id, code string, expiresAt time.Time) error

	// CompleteTwoFactorSetup flips setup_pending=0, enabled=1.
	CompleteTwoFactorSetup(ctx context.Context, id string) error

	// DisableTwoFactor clears enabled, setup_pending and any challenge.
	DisableTwoFactor(ctx context.Context, id string) error

	// UpdateProfile mutates the self-service fields and bumps updated_at.
	UpdateProfile(ctx context.Context, id string, p domain.ProfileUpdate) error

	// SoftDeleteAccount sets is_deleted, records the timestamp and clears
	// contact details. The row is retained for audit referential integrity.
	SoftDeleteAccount(ctx context.Context, id string) error

	// DeleteExpiredUnverified purges unverified accounts whose verification
	// window has closed. Returns the number of rows removed.
	DeleteExpiredUnverified(ctx context.Context, now time.Time) (int64, error)
}

type RecoveryCodes interface {
	// ReplaceRecoveryCodes discards any existing set and stores the given
	// digests in order.
	ReplaceRecoveryCodes(ctx context.Context, accountID string, hashes []string) error

	// ListRecoveryCodes returns the account's codes in stored order,
	// consumed entries included.
	ListRecoveryCodes(ctx context.Context, accountID string) ([]domain.RecoveryCode, error)

	// ConsumeRecoveryCode marks an entry used. The update is guarded on
	// used=0, so exactly one concurrent caller observes consumed=true.
	ConsumeRecoveryCode(ctx context.Context, id int64) (consumed bool, err error)

	// DeleteRecoveryCodes removes all codes for an account (2FA disable).
	DeleteRecoveryCodes(ctx context.Context, accountID string) error
}

type RevokedTokens interface {
	// RevokeToken records a token fingerprint with the token's own expiry.
	// Idempotent: revoking the same fingerprint twice is not an error.
	RevokeToken(ctx context.Context, fingerprint string, expiresAt time.Time) error

	// IsTokenRevoked is the ledger membership check consulted on every
	// authenticated request.
	IsTokenRevoked(ctx context.Context, fingerprint string) (bool, error)

	// DeleteExpiredRevocations purges entries whose recorded expiry has
	// passed; the codec already rejects those tokens. Returns rows removed.
	DeleteExpiredRevocations(ctx context.Context, now time.Time) (int64, error)
}

type AuditLog interface {
	// AppendAuditEntry writes one immutable entry. There is deliberately no
	// update or delete operation.
	AppendAuditEntry(ctx context.Context, e domain.AuditEntry) error

	// ListAuditEntries returns entries in chronological order.
	ListAuditEntries(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error)
}
