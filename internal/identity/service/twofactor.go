package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vitalpoint/identity/internal/identity/domain"
	"github.com/vitalpoint/identity/internal/identity/mailer"
	"github.com/vitalpoint/identity/internal/identity/store"
	"github.com/vitalpoint/identity/pkg/cryptox"
)

var (
	ErrNoChallenge         = errors.New("no challenge is outstanding")
	ErrChallengeExpired    = errors.New("challenge has expired")
	ErrChallengeMismatch   = errors.New("challenge code does not match")
	ErrTwoFactorDisabled   = errors.New("two-factor is not enabled")
	ErrInvalidRecoveryCode = errors.New("recovery code is invalid or already used")
)

// ToggleResult describes the new two-factor state. RecoveryCodes is
// populated only on the enable path and only once; the raw codes are never
// retrievable again.
type ToggleResult struct {
	Enabled        bool
	SetupPending   bool
	RecoveryCodes  []string
	DeliveryFailed bool
}

// TwoFactorService owns the step-up state machine: enrollment, challenge
// verification, recovery codes, and disablement.
type TwoFactorService struct {
	Store  store.Store
	Tokens *TokenService
	Mailer mailer.Mailer
	Logger *slog.Logger
}

// VerifyChallenge consumes the outstanding challenge and upgrades the
// session. When the challenge was an enrollment one, enablement becomes
// durable here. Failures leave the challenge in place so the caller can
// retry until it naturally expires.
func (s *TwoFactorService) VerifyChallenge(ctx context.Context, accountID, code string) (string, error) {
	now := time.Now().UTC()

	var account domain.Account
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		account, err = tx.Accounts().GetAccountByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAccountNotFound
			}
			return fmt.Errorf("failed to load account: %w", err)
		}

		if !account.TwoFactor.Enabled && !account.TwoFactor.SetupPending {
			return ErrTwoFactorDisabled
		}
		if !account.TwoFactor.ChallengeOutstanding() {
			return ErrNoChallenge
		}
		if !now.Before(*account.TwoFactor.ChallengeExpiresAt) {
			return ErrChallengeExpired
		}
		if *account.TwoFactor.ChallengeCode != code {
			return ErrChallengeMismatch
		}

		enrollment := account.TwoFactor.SetupPending
		if enrollment {
			if err := tx.Accounts().CompleteTwoFactorSetup(ctx, accountID); err != nil {
				return fmt.Errorf("failed to complete enrollment: %w", err)
			}
			account.TwoFactor.Enabled = true
			account.TwoFactor.SetupPending = false
		} else {
			if err := tx.Accounts().ClearTwoFactorChallenge(ctx, accountID); err != nil {
				return fmt.Errorf("failed to clear challenge: %w", err)
			}
		}

		return tx.AuditLog().AppendAuditEntry(ctx, domain.AuditEntry{
			Action:      domain.AuditTwoFactorVerified,
			PerformedBy: accountID,
			Details:     map[string]any{"enrollment": enrollment},
			CreatedAt:   now,
		})
	})
	if err != nil {
		return "", err
	}

	return s.Tokens.IssueFull(account)
}

// VerifyRecoveryCode burns one single-use fallback code and upgrades the
// session. Codes are scanned in stored order; the consumed-flag update is
// guarded so the same raw code cannot succeed twice, even concurrently.
func (s *TwoFactorService) VerifyRecoveryCode(ctx context.Context, accountID, rawCode string) (string, error) {
	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrAccountNotFound
		}
		return "", fmt.Errorf("failed to load account: %w", err)
	}
	if !account.TwoFactor.Enabled {
		return "", ErrTwoFactorDisabled
	}

	codes, err := s.Store.RecoveryCodes().ListRecoveryCodes(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("failed to list recovery codes: %w", err)
	}

	var matched *domain.RecoveryCode
	for i := range codes {
		if codes[i].Used {
			continue
		}
		if err := cryptox.VerifySecret(rawCode, codes[i].CodeHash); err == nil {
			matched = &codes[i]
			break
		}
	}
	if matched == nil {
		return "", ErrInvalidRecoveryCode
	}

	consumed, err := s.Store.RecoveryCodes().ConsumeRecoveryCode(ctx, matched.ID)
	if err != nil {
		return "", fmt.Errorf("failed to consume recovery code: %w", err)
	}
	if !consumed {
		// A concurrent request burned the same code first.
		return "", ErrInvalidRecoveryCode
	}

	now := time.Now().UTC()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().ClearTwoFactorChallenge(ctx, accountID); err != nil {
			return fmt.Errorf("failed to clear challenge: %w", err)
		}
		// Distinct audit semantics: this path bypasses the challenge and
		// consumes a scarce fallback resource.
		return tx.AuditLog().AppendAuditEntry(ctx, domain.AuditEntry{
			Action:      domain.AuditRecoveryCodeUsed,
			PerformedBy: accountID,
			Details:     map[string]any{"bypass": true},
			CreatedAt:   now,
		})
	})
	if err != nil {
		return "", err
	}

	return s.Tokens.IssueFull(account)
}

// RegenerateRecoveryCodes discards the existing set and returns a fresh one.
// The raw codes appear exactly once in the return value.
func (s *TwoFactorService) RegenerateRecoveryCodes(ctx context.Context, accountID string) ([]string, error) {
	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if !account.TwoFactor.Enabled {
		return nil, ErrTwoFactorDisabled
	}

	set, err := cryptox.GenerateRecoveryCodeSet(cryptox.DefaultRecoveryCodeCount)
	if err != nil {
		return nil, fmt.Errorf("failed to generate recovery codes: %w", err)
	}

	raw := make([]string, len(set))
	hashes := make([]string, len(set))
	for i, c := range set {
		raw[i] = c.Raw
		hashes[i] = c.Hash
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RecoveryCodes().ReplaceRecoveryCodes(ctx, accountID, hashes); err != nil {
			return fmt.Errorf("failed to replace recovery codes: %w", err)
		}
		return tx.AuditLog().AppendAuditEntry(ctx, domain.AuditEntry{
			Action:      domain.AuditRecoveryCodesRegenerated,
			PerformedBy: accountID,
			Details:     map[string]any{"count": len(set)},
			CreatedAt:   time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}

	return raw, nil
}

// Toggle flips the account's two-factor state. Enabling is two-phase: this
// call leaves the account in setup-pending with an enrollment challenge
// outstanding, and only the paired VerifyChallenge makes enablement durable.
func (s *TwoFactorService) Toggle(ctx context.Context, accountID string) (ToggleResult, error) {
	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ToggleResult{}, ErrAccountNotFound
		}
		return ToggleResult{}, fmt.Errorf("failed to load account: %w", err)
	}

	now := time.Now().UTC()

	if account.TwoFactor.Enabled {
		err := s.Store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Accounts().DisableTwoFactor(ctx, accountID); err != nil {
				return fmt.Errorf("failed to disable two-factor: %w", err)
			}
			if err := tx.RecoveryCodes().DeleteRecoveryCodes(ctx, accountID); err != nil {
				return fmt.Errorf("failed to delete recovery codes: %w", err)
			}
			return tx.AuditLog().AppendAuditEntry(ctx, domain.AuditEntry{
				Action:      domain.AuditTwoFactorDisabled,
				PerformedBy: accountID,
				CreatedAt:   now,
			})
		})
		if err != nil {
			return ToggleResult{}, err
		}
		return ToggleResult{Enabled: false}, nil
	}

	code, err := cryptox.GenerateNumericCode(challengeCodeLength)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("failed to generate challenge: %w", err)
	}

	set, err := cryptox.GenerateRecoveryCodeSet(cryptox.DefaultRecoveryCodeCount)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("failed to generate recovery codes: %w", err)
	}
	raw := make([]string, len(set))
	hashes := make([]string, len(set))
	for i, c := range set {
		raw[i] = c.Raw
		hashes[i] = c.Hash
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().BeginTwoFactorSetup(ctx, accountID, code, now.Add(challengeTTL)); err != nil {
			return fmt.Errorf("failed to begin enrollment: %w", err)
		}
		if err := tx.RecoveryCodes().ReplaceRecoveryCodes(ctx, accountID, hashes); err != nil {
			return fmt.Errorf("failed to store recovery codes: %w", err)
		}
		return tx.AuditLog().AppendAuditEntry(ctx, domain.AuditEntry{
			Action:      domain.AuditTwoFactorEnabledPending,
			PerformedBy: accountID,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return ToggleResult{}, err
	}

	result := ToggleResult{SetupPending: true, RecoveryCodes: raw}

	if err := s.Mailer.Send(ctx, mailer.Message{
		To:      account.Email,
		Subject: "Confirm two-factor setup",
		Text:    "Your setup code is " + code + ". It expires in 10 minutes.",
	}); err != nil {
		s.Logger.WarnContext(ctx, "enrollment challenge delivery failed",
			"account_id", accountID, "error", err)
		result.DeliveryFailed = true
	}

	return result, nil
}
