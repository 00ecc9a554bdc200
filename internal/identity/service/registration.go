package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/vitalpoint/identity/internal/identity/domain"
	"github.com/vitalpoint/identity/internal/identity/mailer"
	"github.com/vitalpoint/identity/internal/identity/store"
	"github.com/vitalpoint/identity/pkg/cryptox"
	"github.com/vitalpoint/identity/pkg/idx"
)

const (
	verificationCodeLength = 6
	verificationCodeTTL    = 5 * time.Minute

	minPasswordLength = 8
)

var (
	ErrDuplicateActiveAccount = errors.New("an active account already uses this email")
	ErrVerificationPending    = errors.New("a registration for this email is awaiting verification")
	ErrAccountNotFound        = errors.New("account not found")
	ErrAlreadyVerified        = errors.New("account is already verified")
	ErrCodeExpired            = errors.New("verification code has expired")
	ErrCodeMismatch           = errors.New("verification code does not match")
	ErrInvalidRole            = errors.New("role must be standard or provider")
	ErrInvalidInput           = errors.New("invalid registration input")
)

// RegisterResult reports the outcome of a registration. DeliveryFailed is a
// warning, not an error: the account and its code exist either way.
type RegisterResult struct {
	AccountID      string
	DeliveryFailed bool
}

// VerifyResult carries the post-verification routing hint.
type VerifyResult struct {
	Role domain.Role
	// NextStep tells the client where to send the user; providers must
	// upload credentials before their account is actionable.
	NextStep string
}

// RegistrationService creates unverified accounts and turns them into
// verified ones via the emailed one-time code. The role is chosen and locked
// at verification time, never at registration.
type RegistrationService struct {
	Store  store.Store
	Mailer mailer.Mailer
	Logger *slog.Logger
}

// Register creates an unverified account and dispatches the verification
// code. If an unverified account with the same email has let its code lapse,
// it is purged and registration proceeds.
func (s *RegistrationService) Register(ctx context.Context, name, username, email, password string) (RegisterResult, error) {
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)

	if name == "" || username == "" {
		return RegisterResult{}, ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return RegisterResult{}, ErrInvalidInput
	}
	if len(password) < minPasswordLength {
		return RegisterResult{}, ErrInvalidInput
	}

	hash, err := cryptox.HashSecret(password)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := cryptox.GenerateNumericCode(verificationCodeLength)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("failed to generate verification code: %w", err)
	}

	now := time.Now().UTC()
	expiresAt := now.Add(verificationCodeTTL)

	account := domain.Account{
		ID:                    idx.New().String(),
		Name:                  name,
		Username:              username,
		Email:                 email,
		PasswordHash:          hash,
		Role:                  domain.RoleUnset,
		VerificationCode:      &code,
		VerificationExpiresAt: &expiresAt,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Accounts().GetAccountByEmail(ctx, email)
		switch {
		case err == nil:
			if existing.Verified {
				return ErrDuplicateActiveAccount
			}
			if existing.VerificationWindowOpen(now) {
				return ErrVerificationPending
			}
			// Stale unverified registration: purge and proceed.
			if err := tx.Accounts().DeleteAccount(ctx, existing.ID); err != nil {
				return fmt.Errorf("failed to purge stale registration: %w", err)
			}
		case errors.Is(err, store.ErrNotFound):
			// fresh email
		default:
			return fmt.Errorf("failed to look up email: %w", err)
		}

		if err := tx.Accounts().CreateAccount(ctx, account); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrDuplicateActiveAccount
			}
			return fmt.Errorf("failed to create account: %w", err)
		}

		return tx.AuditLog().AppendAuditEntry(ctx, domain.AuditEntry{
			Action:      domain.AuditRegistrationCreated,
			PerformedBy: account.ID,
			Details:     map[string]any{"email": email},
			CreatedAt:   now,
		})
	})
	if err != nil {
		return RegisterResult{}, err
	}

	// Mutate-then-dispatch: the account is committed before delivery is
	// attempted, so a delivery failure surfaces as a warning only.
	result := RegisterResult{AccountID: account.ID}
	if err := s.Mailer.Send(ctx, mailer.Message{
		To:      email,
		Subject: "Verify your email",
		Text:    "Your verification code is " + code + ". It expires in 5 minutes.",
	}); err != nil {
		s.Logger.WarnContext(ctx, "verification code delivery failed",
			"account_id", account.ID, "error", err)
		result.DeliveryFailed = true
	}

	return result, nil
}

// VerifyEmail consumes the one-time code, locks the chosen role onto the
// account and returns a routing hint. It never issues a session.
func (s *RegistrationService) VerifyEmail(ctx context.Context, email, code string, role domain.Role) (VerifyResult, error) {
	email = NormalizeEmail(email)
	if !role.IsSelectable() {
		return VerifyResult{}, ErrInvalidRole
	}

	providerStatus := domain.ProviderStatusNone
	if role == domain.RoleProvider {
		providerStatus = domain.ProviderStatusPending
	}

	now := time.Now().UTC()

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		account, err := tx.Accounts().GetAccountByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAccountNotFound
			}
			return fmt.Errorf("failed to look up email: %w", err)
		}

		if account.Verified {
			return ErrAlreadyVerified
		}
		if account.VerificationCode == nil || account.VerificationExpiresAt == nil ||
			!now.Before(*account.VerificationExpiresAt) {
			return ErrCodeExpired
		}
		if *account.VerificationCode != code {
			return ErrCodeMismatch
		}

		if err := tx.Accounts().MarkVerified(ctx, account.ID, role, providerStatus); err != nil {
			if errors.Is(err, store.ErrAlreadyVerified) {
				return ErrAlreadyVerified
			}
			return fmt.Errorf("failed to mark verified: %w", err)
		}

		return tx.AuditLog().AppendAuditEntry(ctx, domain.AuditEntry{
			Action:      domain.AuditRegistrationVerified,
			PerformedBy: account.ID,
			Details:     map[string]any{"role": string(role)},
			CreatedAt:   now,
		})
	})
	if err != nil {
		return VerifyResult{}, err
	}

	result := VerifyResult{Role: role, NextStep: "login"}
	if role == domain.RoleProvider {
		result.NextStep = "upload-credentials"
	}

	subject := "Welcome to VitalPoint"
	text := "Your email is verified. You can now log in."
	if role == domain.RoleProvider {
		text = "Your email is verified. Please upload your practice credentials for review."
	}
	if err := s.Mailer.Send(ctx, mailer.Message{To: email, Subject: subject, Text: text}); err != nil {
		s.Logger.WarnContext(ctx, "welcome delivery failed", "email", email, "error", err)
	}

	return result, nil
}

// NormalizeEmail lowercases and trims an email address. Every store lookup
// and write goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
