package identity_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginRateLimit(t *testing.T) {
	e := setupServer(t)

	e.register(t, "lim@example.com", "lim", "standard")

	// Burn through the strict per-IP budget with bad passwords.
	var sawLimit bool
	for range 10 {
		status, body := e.doJSON(t, http.MethodPost, "/v1/login", "", map[string]any{
			"identifier": "lim@example.com",
			"password":   "definitely-wrong",
		})
		if status == http.StatusTooManyRequests {
			require.Equal(t, "rate_limit_exceeded", body["error"])
			sawLimit = true
			break
		}
		require.Equal(t, http.StatusUnauthorized, status)
	}
	require.True(t, sawLimit, "repeated login attempts must hit the limiter")
}

func TestHealthEndpoints(t *testing.T) {
	e := setupServer(t)

	status, body := e.doJSON(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", body["status"])

	status, body = e.doJSON(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", body["status"])
}
