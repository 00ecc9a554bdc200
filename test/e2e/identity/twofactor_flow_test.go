package identity_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTwoFactorLoginFlow(t *testing.T) {
	e := setupServer(t)

	e.register(t, "tfa@example.com", "tfa", "standard")
	first := e.login(t, "tfa@example.com")
	e.enableTwoFactor(t, "tfa@example.com", first["token"].(string))

	// With 2FA on, password login yields a pending token.
	login := e.login(t, "tfa@example.com")
	require.Equal(t, true, login["second_factor_required"])
	pending := login["token"].(string)

	// The pending token cannot reach protected surface.
	status, body := e.doJSON(t, http.MethodGet, "/v1/account", pending, nil)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "step_up_required", body["error"])

	// Wrong challenge code fails but leaves the challenge intact.
	status, body = e.doJSON(t, http.MethodPost, "/v1/2fa/verify", pending, map[string]any{
		"code": "000000",
	})
	if body["error"] == "code_mismatch" {
		require.Equal(t, http.StatusBadRequest, status)
	}

	// The mailed code upgrades the session.
	status, body = e.doJSON(t, http.MethodPost, "/v1/2fa/verify", pending, map[string]any{
		"code": e.Inbox.lastCode(t, "tfa@example.com"),
	})
	require.Equal(t, http.StatusOK, status)
	full := body["token"].(string)

	status, account := e.doJSON(t, http.MethodGet, "/v1/account", full, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, account["two_factor_enabled"])
}

func TestRecoveryCodeFlow(t *testing.T) {
	e := setupServer(t)

	e.register(t, "rec@example.com", "rec", "standard")
	first := e.login(t, "rec@example.com")
	codes, _ := e.enableTwoFactor(t, "rec@example.com", first["token"].(string))
	require.NotEmpty(t, codes)

	login := e.login(t, "rec@example.com")
	pending := login["token"].(string)

	// A recovery code bypasses the emailed challenge entirely.
	status, body := e.doJSON(t, http.MethodPost, "/v1/2fa/recovery", pending, map[string]any{
		"code": codes[0],
	})
	require.Equal(t, http.StatusOK, status)
	full := body["token"].(string)

	status, _ = e.doJSON(t, http.MethodGet, "/v1/account", full, nil)
	require.Equal(t, http.StatusOK, status)

	// The same code is burned and cannot be replayed.
	login = e.login(t, "rec@example.com")
	status, body = e.doJSON(t, http.MethodPost, "/v1/2fa/recovery", login["token"].(string), map[string]any{
		"code": codes[0],
	})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "invalid_recovery_code", body["error"])

	// A different code from the set still works.
	status, _ = e.doJSON(t, http.MethodPost, "/v1/2fa/recovery", login["token"].(string), map[string]any{
		"code": codes[1],
	})
	require.Equal(t, http.StatusOK, status)
}

func TestTwoFactorToggleFlow(t *testing.T) {
	e := setupServer(t)

	e.register(t, "tog@example.com", "tog", "standard")
	first := e.login(t, "tog@example.com")
	token := first["token"].(string)

	// Begin enrollment, then abandon it: login must not demand a second
	// factor because enablement was never confirmed.
	status, body := e.doJSON(t, http.MethodPost, "/v1/2fa/toggle", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["setup_pending"])
	require.NotEmpty(t, body["recovery_codes"])

	login := e.login(t, "tog@example.com")
	require.Nil(t, login["second_factor_required"])
	token = login["token"].(string)

	// Complete the enrollment this time.
	_, confirmed := e.enableTwoFactor(t, "tog@example.com", token)

	// Toggling again disables and invalidates the recovery set.
	status, body = e.doJSON(t, http.MethodPost, "/v1/2fa/toggle", confirmed, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, false, body["enabled"])
	require.Nil(t, body["recovery_codes"])

	// Regeneration requires an enabled second factor.
	status, body = e.doJSON(t, http.MethodPost, "/v1/2fa/recovery-codes", confirmed, nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "two_factor_not_enabled", body["error"])
}

func TestRegenerateRecoveryCodes(t *testing.T) {
	e := setupServer(t)

	e.register(t, "rgn@example.com", "rgn", "standard")
	first := e.login(t, "rgn@example.com")
	old, full := e.enableTwoFactor(t, "rgn@example.com", first["token"].(string))

	status, body := e.doJSON(t, http.MethodPost, "/v1/2fa/recovery-codes", full, nil)
	require.Equal(t, http.StatusOK, status)

	fresh := body["recovery_codes"].([]any)
	require.Len(t, fresh, 5)

	// The old set is dead.
	login := e.login(t, "rgn@example.com")
	status, body = e.doJSON(t, http.MethodPost, "/v1/2fa/recovery", login["token"].(string), map[string]any{
		"code": old[0],
	})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "invalid_recovery_code", body["error"])
}
