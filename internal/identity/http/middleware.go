package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/vitalpoint/identity/internal/identity/domain"
	"github.com/vitalpoint/identity/internal/identity/service"
	"github.com/vitalpoint/identity/internal/identity/store"
	"github.com/vitalpoint/identity/pkg/httpx"
)

type ctxKey string

const ctxKeyAccount ctxKey = "identity.account"

// AccountFromContext returns the account resolved by the authorization
// gate, if any.
func AccountFromContext(ctx context.Context) (domain.Account, bool) {
	a, ok := ctx.Value(ctxKeyAccount).(domain.Account)
	return a, ok
}

// GateOptions adjust the authorization gate per route.
type GateOptions struct {
	// AllowPending admits tokens that have not passed the second factor.
	// Only the step-up and logout routes set this.
	AllowPending bool

	// Roles, when non-empty, is the allow-list for the route.
	Roles []domain.Role
}

// Gate is the per-request authorization chain: bearer extract, revocation
// ledger, signature and expiry, account resolution, blocked/deleted check,
// role allow-list, and finally the step-up requirement. The resolved
// account is attached to the request context.
func Gate(tokens *service.TokenService, st store.Store, opts GateOptions) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "invalid_token", "missing bearer token")
				return
			}

			claims, kind, err := tokens.Verify(ctx, token)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			account, err := st.Accounts().GetAccountByID(ctx, claims.Subject)
			if err != nil {
				writeError(w, http.StatusNotFound, "not_found", "account not found")
				return
			}
			if account.Deleted {
				writeError(w, http.StatusNotFound, "not_found", "account not found")
				return
			}
			if account.Blocked {
				writeError(w, http.StatusForbidden, "blocked", "account is blocked")
				return
			}

			if len(opts.Roles) > 0 && !roleAllowed(account.Role, opts.Roles) {
				writeError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}

			// A pending token on a 2FA-enabled account only reaches the
			// step-up routes; everything else demands the full session.
			if !opts.AllowPending && account.TwoFactor.Enabled && kind == domain.SessionPending {
				writeError(w, http.StatusForbidden, "step_up_required", "second factor verification required")
				return
			}

			ctx = context.WithValue(ctx, ctxKeyAccount, account)
			ctx = httpx.ContextWithAccountID(ctx, account.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func roleAllowed(role domain.Role, allowed []domain.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
