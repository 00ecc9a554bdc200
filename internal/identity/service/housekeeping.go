package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/vitalpoint/identity/internal/identity/store"
)

// HousekeepingService periodically purges rows that no longer affect
// correctness: revocation-ledger entries whose token has expired and
// unverified accounts whose verification window has closed.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup performs one sweep. Each deletion is independent; a failure in one
// does not stop the others.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	now := time.Now().UTC()

	if n, err := s.Store.RevokedTokens().DeleteExpiredRevocations(ctx, now); err != nil {
		s.Logger.Error("failed to purge expired revocations", "error", err)
	} else if n > 0 {
		s.Logger.Info("purged expired revocations", "count", n)
	}

	if n, err := s.Store.Accounts().DeleteExpiredUnverified(ctx, now); err != nil {
		s.Logger.Error("failed to purge stale registrations", "error", err)
	} else if n > 0 {
		s.Logger.Info("purged stale registrations", "count", n)
	}
}
