package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vitalpoint/identity/internal/identity/domain"
	"github.com/vitalpoint/identity/internal/identity/service"
	"github.com/vitalpoint/identity/internal/identity/store"
	"github.com/vitalpoint/identity/pkg/httpx"
	"github.com/vitalpoint/identity/pkg/slogx"

	_ "github.com/vitalpoint/identity/api/identity" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	TokenService     *service.TokenService
	Registration     *service.RegistrationService
	LoginService     *service.LoginService
	TwoFactorService *service.TwoFactorService
	AccountService   *service.AccountService
	AuditService     *service.AuditService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerRegistration()
	r.registerSessions()
	r.registerTwoFactor()
	r.registerAccount()
	r.registerAudit()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			VitalPoint Identity Service API
//	@version		0.1.0
//	@description	Identity and session security for the VitalPoint health-assistant platform:
//	@description	registration with email verification, password login, optional email-based
//	@description	second factor with single-use recovery codes, and signed session tokens with
//	@description	explicit revocation.
//
//	@contact.name				VitalPoint Platform Team
//	@contact.url				https://github.com/vitalpoint/identity
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerRegistration() {
	h := &RegistrationHandler{Registration: r.Registration}

	// Credential-adjacent endpoints get the strict per-IP limit.
	r.handle("POST /v1/register", h.HandleRegister,
		httpx.RateLimitByIP(httpx.StrictLimit))
	r.handle("POST /v1/verify-email", h.HandleVerifyEmail,
		httpx.RateLimitByIP(httpx.StrictLimit))
}

func (r *Router) registerSessions() {
	h := &LoginHandler{Login: r.LoginService}

	r.handle("POST /v1/login", h.HandleLogin,
		httpx.RateLimitByIP(httpx.StrictLimit))

	// Pending tokens may log out too.
	r.handle("POST /v1/logout", h.HandleLogout,
		Gate(r.TokenService, r.store, GateOptions{AllowPending: true}),
		httpx.RateLimitByAccount(httpx.ModerateLimit))
}

func (r *Router) registerTwoFactor() {
	h := &TwoFactorHandler{TwoFactor: r.TwoFactorService}

	// Step-up endpoints are the pending token's whole purpose.
	r.handle("POST /v1/2fa/verify", h.HandleVerifyChallenge,
		Gate(r.TokenService, r.store, GateOptions{AllowPending: true}),
		httpx.RateLimitByAccount(httpx.StrictLimit))
	r.handle("POST /v1/2fa/recovery", h.HandleVerifyRecovery,
		Gate(r.TokenService, r.store, GateOptions{AllowPending: true}),
		httpx.RateLimitByAccount(httpx.StrictLimit))

	r.handle("POST /v1/2fa/toggle", h.HandleToggle,
		Gate(r.TokenService, r.store, GateOptions{}),
		httpx.RateLimitByAccount(httpx.ModerateLimit))
	r.handle("POST /v1/2fa/recovery-codes", h.HandleRegenerateRecoveryCodes,
		Gate(r.TokenService, r.store, GateOptions{}),
		httpx.RateLimitByAccount(httpx.ModerateLimit))
}

func (r *Router) registerAccount() {
	h := &AccountHandler{Accounts: r.AccountService, Login: r.LoginService}

	r.handle("GET /v1/account", h.HandleGet,
		Gate(r.TokenService, r.store, GateOptions{}),
		httpx.RateLimitByAccount(httpx.ModerateLimit))
	r.handle("PATCH /v1/account", h.HandleUpdate,
		Gate(r.TokenService, r.store, GateOptions{}),
		httpx.RateLimitByAccount(httpx.ModerateLimit))
	r.handle("DELETE /v1/account", h.HandleDelete,
		Gate(r.TokenService, r.store, GateOptions{}),
		httpx.RateLimitByAccount(httpx.ModerateLimit))
}

func (r *Router) registerAudit() {
	h := &AuditHandler{Audit: r.AuditService}

	r.handle("GET /v1/audit", h.HandleList,
		Gate(r.TokenService, r.store, GateOptions{
			Roles: []domain.Role{domain.RoleAdministrator},
		}),
		httpx.RateLimitByAccount(httpx.LenientLimit))
}

func (r *Router) registerSystem() {
	h := &SystemHandler{Store: r.store, Version: r.buildVersion, StartTime: r.startTime}

	r.handle("GET /livez", h.HandleLivez,
		httpx.RateLimitByIP(httpx.PublicLimit))
	r.handle("GET /readyz", h.HandleReadyz,
		httpx.RateLimitByIP(httpx.PublicLimit))
}

func (r *Router) handle(pattern string, fn http.HandlerFunc, middlewares ...httpx.Middleware) {
	r.Mux.Handle(pattern, httpx.Chain(fn, middlewares...))
}
