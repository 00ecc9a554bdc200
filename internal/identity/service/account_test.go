package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vitalpoint/identity/internal/identity/domain"
	"github.com/vitalpoint/identity/internal/identity/service"
)

func TestAccountGet(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	id := registerVerified(t, d, "acc@example.com", "acc1", "longenough")

	account, err := d.Accounts.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "acc@example.com", account.Email)

	_, err = d.Accounts.Get(ctx, "nonexistent")
	require.ErrorIs(t, err, service.ErrAccountNotFound)
}

func TestAccountUpdateProfile(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	id := registerVerified(t, d, "upd@example.com", "upd1", "longenough")

	name := "Renamed Person"
	contact := "0400 123 456"
	err := d.Accounts.UpdateProfile(ctx, id, domain.ProfileUpdate{
		Name:    &name,
		Contact: &contact,
	})
	require.NoError(t, err)

	account, err := d.Accounts.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Renamed Person", account.Name)
	require.Equal(t, "0400 123 456", account.Contact)
	require.Equal(t, "upd1", account.Username)

	actions := auditActions(t, d)
	require.Contains(t, actions, domain.AuditProfileUpdated)
}

func TestAccountUpdateProfile_UsernameTaken(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	registerVerified(t, d, "u1@example.com", "taken", "longenough")
	id := registerVerified(t, d, "u2@example.com", "mover", "longenough")

	taken := "taken"
	err := d.Accounts.UpdateProfile(ctx, id, domain.ProfileUpdate{Username: &taken})
	require.ErrorIs(t, err, service.ErrUsernameTaken)
}

func TestAccountUpdateProfile_BlankName(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	id := registerVerified(t, d, "bn@example.com", "bn1", "longenough")

	blank := "   "
	err := d.Accounts.UpdateProfile(ctx, id, domain.ProfileUpdate{Name: &blank})
	require.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestAccountSoftDelete(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	id := registerVerified(t, d, "sd@example.com", "sd1", "longenough")

	require.NoError(t, d.Accounts.SoftDelete(ctx, id))

	// Service reads treat soft-deleted as absent.
	_, err := d.Accounts.Get(ctx, id)
	require.ErrorIs(t, err, service.ErrAccountNotFound)

	// The row survives for audit resolution.
	raw, err := d.Store.Accounts().GetAccountByID(ctx, id)
	require.NoError(t, err)
	require.True(t, raw.Deleted)

	actions := auditActions(t, d)
	require.Contains(t, actions, domain.AuditAccountDeleted)
}

func TestAuditList(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	registerVerified(t, d, "al@example.com", "al1", "longenough")

	entries, err := d.Audit.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, domain.AuditRegistrationCreated, entries[0].Action)
	require.Equal(t, domain.AuditRegistrationVerified, entries[1].Action)

	page, err := d.Audit.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, domain.AuditRegistrationVerified, page[0].Action)
}
