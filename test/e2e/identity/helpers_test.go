package identity_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	identityhttp "github.com/vitalpoint/identity/internal/identity/http"
	"github.com/vitalpoint/identity/internal/identity/mailer"
	"github.com/vitalpoint/identity/internal/identity/service"
	"github.com/vitalpoint/identity/internal/identity/store/drivers/sqlite"
	"github.com/vitalpoint/identity/pkg/cryptox"
	"github.com/vitalpoint/identity/pkg/jwtx"
)

/*
 * End-to-end tests run the full HTTP stack in-process: real router, real
 * middleware chain, real sqlite store, real token codec. Only mail delivery
 * is captured instead of sent.
 */

const testPassword = "correct horse battery staple"

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "e2e-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

// inboxMailer records outbound mail so tests can read delivered codes.
type inboxMailer struct {
	mu       sync.Mutex
	messages []mailer.Message
	fail     bool
}

func (m *inboxMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	if m.fail {
		return errors.New("delivery refused")
	}
	return nil
}

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

// lastCode returns the six-digit code from the most recent message sent to
// the given address.
func (m *inboxMailer) lastCode(t *testing.T, to string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].To != to {
			continue
		}
		if match := codePattern.FindStringSubmatch(m.messages[i].Text); match != nil {
			return match[1]
		}
	}
	t.Fatalf("no code delivered to %s", to)
	return ""
}

type testEnv struct {
	Server *httptest.Server
	Inbox  *inboxMailer
	Store  *sqlite.Store
}

// setupServer builds the whole service in-process and returns a running
// test server.
func setupServer(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.Join(t.TempDir(), "e2e.db"))
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA(pemKey)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	inbox := &inboxMailer{}

	tokens := &service.TokenService{
		Store:    st,
		Signer:   signer,
		Verifier: jwtx.NewVerifierEdDSA(signer.PublicKey(), "identity-e2e"),
		Issuer:   "identity-e2e",
	}

	router := identityhttp.NewRouter("test", st, logger)
	router.TokenService = tokens
	router.Registration = &service.RegistrationService{Store: st, Mailer: inbox, Logger: logger}
	router.LoginService = &service.LoginService{Store: st, Tokens: tokens, Mailer: inbox, Logger: logger}
	router.TwoFactorService = &service.TwoFactorService{Store: st, Tokens: tokens, Mailer: inbox, Logger: logger}
	router.AccountService = &service.AccountService{Store: st}
	router.AuditService = &service.AuditService{Store: st}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{Server: server, Inbox: inbox, Store: st}
}

// doJSON issues a request with an optional bearer token and JSON body, and
// decodes the JSON response into a generic map.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.Server.URL+path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp.StatusCode, out
}

// doJSONList is doJSON for endpoints that respond with a JSON array.
func (e *testEnv) doJSONList(t *testing.T, method, path, token string) (int, []any) {
	t.Helper()

	req, err := http.NewRequest(method, e.Server.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out []any
	if len(raw) > 0 && raw[0] == '[' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

// register walks the register + verify-email flow and returns the account id.
func (e *testEnv) register(t *testing.T, email, username, role string) string {
	t.Helper()

	status, body := e.doJSON(t, http.MethodPost, "/v1/register", "", map[string]any{
		"name":     "Test Person",
		"username": username,
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, status, "register: %v", body)

	status, verify := e.doJSON(t, http.MethodPost, "/v1/verify-email", "", map[string]any{
		"email": email,
		"code":  e.Inbox.lastCode(t, email),
		"role":  role,
	})
	require.Equal(t, http.StatusOK, status, "verify-email: %v", verify)

	return body["account_id"].(string)
}

// login performs a password login and returns the response body.
func (e *testEnv) login(t *testing.T, identifier string) map[string]any {
	t.Helper()

	status, body := e.doJSON(t, http.MethodPost, "/v1/login", "", map[string]any{
		"identifier": identifier,
		"password":   testPassword,
	})
	require.Equal(t, http.StatusOK, status, "login: %v", body)
	return body
}

// enableTwoFactor toggles 2FA on and confirms the enrollment challenge,
// returning the raw recovery codes and the upgraded session token.
func (e *testEnv) enableTwoFactor(t *testing.T, email, token string) ([]string, string) {
	t.Helper()

	status, body := e.doJSON(t, http.MethodPost, "/v1/2fa/toggle", token, nil)
	require.Equal(t, http.StatusOK, status, "toggle: %v", body)
	require.Equal(t, true, body["setup_pending"])

	var codes []string
	for _, c := range body["recovery_codes"].([]any) {
		codes = append(codes, c.(string))
	}

	status, confirm := e.doJSON(t, http.MethodPost, "/v1/2fa/verify", token, map[string]any{
		"code": e.Inbox.lastCode(t, email),
	})
	require.Equal(t, http.StatusOK, status, "enrollment confirm: %v", confirm)

	return codes, confirm["token"].(string)
}
