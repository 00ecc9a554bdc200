package identity_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vitalpoint/identity/internal/identity/domain"
	"github.com/vitalpoint/identity/pkg/cryptox"
	"github.com/vitalpoint/identity/pkg/idx"
)

// provisionAdmin inserts a verified administrator directly: admin accounts
// are created out of band, never through registration.
func provisionAdmin(t *testing.T, e *testEnv, email, username string) {
	t.Helper()
	ctx := context.Background()

	hash, err := cryptox.HashSecret(testPassword)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, e.Store.Accounts().CreateAccount(ctx, domain.Account{
		ID:            idx.New().String(),
		Name:          "Platform Admin",
		Username:      username,
		Email:         email,
		PasswordHash:  hash,
		Role:          domain.RoleAdministrator,
		Verified:      true,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}))
}

func TestAuditTrail(t *testing.T) {
	e := setupServer(t)

	provisionAdmin(t, e, "admin@example.com", "admin")
	e.register(t, "watched@example.com", "watched", "standard")
	e.login(t, "watched@example.com")

	admin := e.login(t, "admin@example.com")

	status, entries := e.doJSONList(t, http.MethodGet, "/v1/audit", admin["token"].(string))
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, entries)

	var actions []string
	for _, raw := range entries {
		entry := raw.(map[string]any)
		actions = append(actions, entry["action"].(string))
	}
	require.Contains(t, actions, "registration.created")
	require.Contains(t, actions, "registration.verified")
	require.Contains(t, actions, "login.succeeded")
}

func TestAuditTrail_ForbiddenForNonAdmins(t *testing.T) {
	e := setupServer(t)

	e.register(t, "pleb@example.com", "pleb", "standard")
	login := e.login(t, "pleb@example.com")

	status, body := e.doJSON(t, http.MethodGet, "/v1/audit", login["token"].(string), nil)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "forbidden", body["error"])
}
