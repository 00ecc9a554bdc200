package domain

import "time"

// SessionKind distinguishes a pending session (password verified, second
// factor outstanding) from a full one. It is derived totally from the
// token's second-factor claim so gate checks are a match, not a convention.
type SessionKind int

const (
	// SessionPending is issued after password verification when a
	// second-factor challenge is outstanding. It authorizes only the step-up
	// and logout endpoints.
	SessionPending SessionKind = iota

	// SessionFull is the normal session credential.
	SessionFull
)

func (k SessionKind) String() string {
	if k == SessionFull {
		return "full"
	}
	return "pending"
}

// Session is the decoded, classified form of a verified bearer token.
type Session struct {
	Kind      SessionKind
	AccountID string
	Role      Role
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewSession classifies a verified token's fields into the tagged form.
func NewSession(accountID string, role Role, email string, secondFactor bool, issuedAt, expiresAt time.Time) Session {
	kind := SessionPending
	if secondFactor {
		kind = SessionFull
	}
	return Session{
		Kind:      kind,
		AccountID: accountID,
		Role:      role,
		Email:     email,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}
}

// RevokedToken is one revocation-ledger entry: the SHA-256 fingerprint of a
// bearer token plus the token's own expiry. Past that expiry the entry is
// moot (the codec already rejects the token) and may be purged.
type RevokedToken struct {
	Fingerprint string
	ExpiresAt   time.Time
	RevokedAt   time.Time
}
