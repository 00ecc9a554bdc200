package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/vitalpoint/identity/internal/identity/http"
	"github.com/vitalpoint/identity/internal/identity/mailer"
	"github.com/vitalpoint/identity/internal/identity/service"
	"github.com/vitalpoint/identity/internal/identity/store"
	"github.com/vitalpoint/identity/internal/identity/store/drivers/sqlite"
	"github.com/vitalpoint/identity/pkg/cryptox"
	"github.com/vitalpoint/identity/pkg/jwtx"
	"github.com/vitalpoint/identity/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the identity service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	signer *jwtx.EdDSASigner
	mail   mailer.Mailer

	// Services
	tokenService        *service.TokenService
	registrationService *service.RegistrationService
	loginService        *service.LoginService
	twoFactorService    *service.TwoFactorService
	accountService      *service.AccountService
	auditService        *service.AuditService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "identity-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, err := InitSigningKey(app.cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.signer = signer

	if err := app.initMailer(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("identity service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down identity service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("identity service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initMailer picks the delivery backend: Resend when an API key is present,
// log-only otherwise.
func (app *Application) initMailer() error {
	if app.cfg.ResendAPIKey == "" {
		app.logger.Warn("no mail API key configured; codes will only be logged")
		app.mail = mailer.NewLogMailer(app.logger)
		return nil
	}

	m, err := mailer.NewResendMailer(app.cfg.ResendAPIKey, app.cfg.MailFrom, app.cfg.ResendBaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}
	app.mail = m
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Store:      app.db,
		Signer:     app.signer,
		Verifier:   jwtx.NewVerifierEdDSA(app.signer.PublicKey(), app.cfg.Issuer),
		Issuer:     app.cfg.Issuer,
		FullTTL:    app.cfg.FullTTL,
		PendingTTL: app.cfg.PendingTTL,
	}

	app.registrationService = &service.RegistrationService{
		Store:  app.db,
		Mailer: app.mail,
		Logger: app.logger,
	}
	app.loginService = &service.LoginService{
		Store:  app.db,
		Tokens: app.tokenService,
		Mailer: app.mail,
		Logger: app.logger,
	}
	app.twoFactorService = &service.TwoFactorService{
		Store:  app.db,
		Tokens: app.tokenService,
		Mailer: app.mail,
		Logger: app.logger,
	}
	app.accountService = &service.AccountService{Store: app.db}
	app.auditService = &service.AuditService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP wires the router and the HTTP server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)
	router.TokenService = app.tokenService
	router.Registration = app.registrationService
	router.LoginService = app.loginService
	router.TwoFactorService = app.twoFactorService
	router.AccountService = app.accountService
	router.AuditService = app.auditService
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: router,
	}
}
