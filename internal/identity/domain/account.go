package domain

import "time"

// Role is locked onto an account when email verification succeeds and is
// immutable afterwards.
type Role string

const (
	RoleUnset         Role = ""
	RoleStandard      Role = "standard"
	RoleProvider      Role = "provider"
	RoleAdministrator Role = "administrator"
)

// SelectableRoles are the roles a caller may choose at verification time.
// Administrator accounts are provisioned out of band.
var SelectableRoles = []Role{RoleStandard, RoleProvider}

// IsSelectable reports whether the role may be chosen during verification.
func (r Role) IsSelectable() bool {
	for _, s := range SelectableRoles {
		if r == s {
			return true
		}
	}
	return false
}

// Provider credential review states. Only provider accounts carry one.
const (
	ProviderStatusNone     = ""
	ProviderStatusPending  = "pending"
	ProviderStatusApproved = "approved"
	ProviderStatusRejected = "rejected"
)

// Account is the identity record. The password hash is an Argon2id digest;
// the clear password never touches the store. Verification and two-factor
// challenge fields exist only while their windows are open.
type Account struct {
	ID           string
	Name         string
	Username     string
	Email        string // lowercased, trimmed
	PasswordHash string

	Age     *int
	Gender  string
	Contact string

	Role           Role
	EmailVerified  bool
	Verified       bool
	ProviderStatus string

	VerificationCode      *string
	VerificationExpiresAt *time.Time

	Blocked   bool
	Deleted   bool
	DeletedAt *time.Time

	TwoFactor TwoFactor

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TwoFactor is the step-up sub-state of an account. SetupPending means
// enrollment has begun but the initial challenge has not been confirmed, so
// Enabled stays false until it is.
type TwoFactor struct {
	Enabled      bool
	SetupPending bool

	ChallengeCode      *string
	ChallengeExpiresAt *time.Time
}

// ChallengeOutstanding reports whether a challenge code is currently stored.
func (t TwoFactor) ChallengeOutstanding() bool {
	return t.ChallengeCode != nil && t.ChallengeExpiresAt != nil
}

// VerificationWindowOpen reports whether the account's email-verification
// code is still usable at the given instant.
func (a Account) VerificationWindowOpen(now time.Time) bool {
	return a.VerificationCode != nil &&
		a.VerificationExpiresAt != nil &&
		now.Before(*a.VerificationExpiresAt)
}

// RecoveryCode is one entry of an account's single-use fallback set. Only
// the Argon2id digest is stored; Used flips true exactly once.
type RecoveryCode struct {
	ID        int64
	AccountID string
	CodeHash  string
	Used      bool
	CreatedAt time.Time
}

// ProfileUpdate carries the self-service mutable fields. Nil pointers leave
// the field unchanged.
type ProfileUpdate struct {
	Name     *string
	Username *string
	Age      *int
	Gender   *string
	Contact  *string
}

// Empty reports whether the update carries no changes.
func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Username == nil && p.Age == nil &&
		p.Gender == nil && p.Contact == nil
}
