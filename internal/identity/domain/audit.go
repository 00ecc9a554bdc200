package domain

import "time"

// Audit action vocabulary. Free-form strings are not accepted; every
// security transition uses one of these labels.
const (
	AuditRegistrationCreated  = "registration.created"
	AuditRegistrationVerified = "registration.verified"

	AuditLoginSucceeded     = "login.succeeded"
	AuditLoginChallengeSent = "login.challenge_sent"

	AuditTwoFactorVerified        = "twofactor.verified"
	AuditTwoFactorEnabledPending  = "twofactor.enabled_pending"
	AuditTwoFactorDisabled        = "twofactor.disabled"
	AuditRecoveryCodeUsed         = "twofactor.recovery_used"
	AuditRecoveryCodesRegenerated = "twofactor.recovery_regenerated"

	AuditSessionRevoked = "session.revoked"

	AuditProfileUpdated = "account.profile_updated"
	AuditAccountDeleted = "account.deleted"
)

// AuditEntry is one append-only record of a security transition. Entries are
// never mutated or deleted; accounts are only soft-deleted so PerformedBy
// always resolves.
type AuditEntry struct {
	ID          int64
	Action      string
	PerformedBy string
	Details     map[string]any
	CreatedAt   time.Time
}
