package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/folioworks/backoffice/internal/backoffice/store"
)

// HousekeepingService periodically cleans up dead database records so
// reset_tokens and sessions don't grow without bound. It only deletes
// rows already out of play: invalid or expired tokens and revoked
// sessions.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the worker. If interval is 0 or
// negative, defaults to 1 hour.
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

// Start begins the background worker. Non-blocking; call after the
// database is ready. Call Stop() to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the worker, blocking until any in-progress cleanup
// has finished.
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
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup performs the actual deletions. Each one is independent;
// a failure in one won't stop the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	s.Logger.Info("starting housekeeping cleanup")

	if n, err := s.Store.ResetTokens().DeleteDeadResetTokens(ctx, time.Now().UTC()); err != nil {
		s.Logger.Error("failed to delete dead reset tokens", "error", err)
	} else if n > 0 {
		s.Logger.Debug("deleted dead reset tokens", "count", n)
	}

	if n, err := s.Store.Sessions().DeleteInactiveSessions(ctx); err != nil {
		s.Logger.Error("failed to delete inactive sessions", "error", err)
	} else if n > 0 {
		s.Logger.Debug("deleted inactive sessions", "count", n)
	}

	s.Logger.Info("housekeeping cleanup completed")
}
