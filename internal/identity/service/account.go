package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vitalpoint/identity/internal/identity/domain"
	"github.com/vitalpoint/identity/internal/identity/store"
)

var ErrUsernameTaken = errors.New("username is already taken")

// AccountService covers self-service account maintenance: profile reads and
// updates plus soft deletion.
type AccountService struct {
	Store store.Store
}

// Get returns the account for the given id.
func (s *AccountService) Get(ctx context.Context, id string) (domain.Account, error) {
	account, err := s.Store.Accounts().GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("failed to load account: %w", err)
	}
	if account.Deleted {
		return domain.Account{}, ErrAccountNotFound
	}
	return account, nil
}

// UpdateProfile applies the non-nil fields of the update. Email, password
// and role are deliberately not reachable from here.
func (s *AccountService) UpdateProfile(ctx context.Context, id string, p domain.ProfileUpdate) error {
	if p.Username != nil {
		trimmed := strings.TrimSpace(*p.Username)
		if trimmed == "" {
			return ErrInvalidInput
		}
		p.Username = &trimmed
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrInvalidInput
	}
	if p.Empty() {
		return nil
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().UpdateProfile(ctx, id, p); err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				return ErrAccountNotFound
			case errors.Is(err, store.ErrAlreadyExists):
				return ErrUsernameTaken
			}
			return fmt.Errorf("failed to update profile: %w", err)
		}
		return tx.AuditLog().AppendAuditEntry(ctx, domain.AuditEntry{
			Action:      domain.AuditProfileUpdated,
			PerformedBy: id,
			CreatedAt:   time.Now().UTC(),
		})
	})
}

// SoftDelete marks the account deleted and scrubs its contact details. The
// row is retained so audit entries keep resolving. The caller's session
// token should be revoked alongside.
func (s *AccountService) SoftDelete(ctx context.Context, id string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().SoftDeleteAccount(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAccountNotFound
			}
			return fmt.Errorf("failed to soft-delete account: %w", err)
		}
		return tx.AuditLog().AppendAuditEntry(ctx, domain.AuditEntry{
			Action:      domain.AuditAccountDeleted,
			PerformedBy: id,
			CreatedAt:   time.Now().UTC(),
		})
	})
}
