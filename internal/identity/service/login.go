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

const (
	challengeCodeLength = 6
	challengeTTL        = 10 * time.Minute
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("account is blocked")
)

// LoginResult is the outcome of a successful password check. When the
// account has a second factor the token is a short-lived pending one and
// SecondFactorRequired is set.
type LoginResult struct {
	Token                string
	SecondFactorRequired bool
	DeliveryFailed       bool
}

// LoginService drives the password stage of the session state machine.
type LoginService struct {
	Store  store.Store
	Tokens *TokenService
	Mailer mailer.Mailer
	Logger *slog.Logger
}

// Login verifies the password and either issues a full session or, when the
// account has an active second factor, stores a fresh challenge and issues a
// pending token. An enrollment that was never confirmed does not gate login.
func (s *LoginService) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	account, err := s.Store.Accounts().GetAccountByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrAccountNotFound
		}
		return LoginResult{}, fmt.Errorf("failed to look up account: %w", err)
	}
	if account.Deleted {
		return LoginResult{}, ErrAccountNotFound
	}
	if account.Blocked {
		return LoginResult{}, ErrAccountBlocked
	}
	if !account.Verified {
		return LoginResult{}, ErrVerificationPending
	}

	if err := cryptox.VerifySecret(password, account.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("failed to verify password: %w", err)
	}

	now := time.Now().UTC()

	if !account.TwoFactor.Enabled {
		token, err := s.Tokens.IssueFull(account)
		if err != nil {
			return LoginResult{}, err
		}
		if err := s.Store.AuditLog().AppendAuditEntry(ctx, domain.AuditEntry{
			Action:      domain.AuditLoginSucceeded,
			PerformedBy: account.ID,
			CreatedAt:   now,
		}); err != nil {
			return LoginResult{}, fmt.Errorf("failed to append audit entry: %w", err)
		}
		return LoginResult{Token: token}, nil
	}

	code, err := cryptox.GenerateNumericCode(challengeCodeLength)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to generate challenge: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().SetTwoFactorChallenge(ctx, account.ID, code, now.Add(challengeTTL)); err != nil {
			return fmt.Errorf("failed to store challenge: %w", err)
		}
		return tx.AuditLog().AppendAuditEntry(ctx, domain.AuditEntry{
			Action:      domain.AuditLoginChallengeSent,
			PerformedBy: account.ID,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return LoginResult{}, err
	}

	token, err := s.Tokens.IssuePending(account)
	if err != nil {
		return LoginResult{}, err
	}

	result := LoginResult{Token: token, SecondFactorRequired: true}

	// Mutate-then-dispatch: the challenge is committed before delivery.
	if err := s.Mailer.Send(ctx, mailer.Message{
		To:      account.Email,
		Subject: "Your sign-in code",
		Text:    "Your sign-in code is " + code + ". It expires in 10 minutes.",
	}); err != nil {
		s.Logger.WarnContext(ctx, "challenge delivery failed",
			"account_id", account.ID, "error", err)
		result.DeliveryFailed = true
	}

	return result, nil
}

// Logout revokes the presented token and records the transition. Repeated
// logout with the same token succeeds (revocation is idempotent).
func (s *LoginService) Logout(ctx context.Context, accountID, token string) error {
	if err := s.Tokens.Revoke(ctx, token); err != nil {
		return err
	}
	return s.Store.AuditLog().AppendAuditEntry(ctx, domain.AuditEntry{
		Action:      domain.AuditSessionRevoked,
		PerformedBy: accountID,
		CreatedAt:   time.Now().UTC(),
	})
}
