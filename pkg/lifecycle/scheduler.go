// Package lifecycle moves auction sessions through their states as time passes.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/chris/artwork-auctions/pkg/events"
	"github.com/chris/artwork-auctions/pkg/metrics"
	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/chris/artwork-auctions/pkg/storage"
	"github.com/robfig/cron/v3"
)

const (
	// DefaultInterval is how often the scheduler looks for due transitions.
	DefaultInterval = 30 * time.Second

	sessionTimeout = 30 * time.Second
)

// Options holds the optional collaborators of a Scheduler.
type Options struct {
	Publisher events.Publisher
	Logger    *slog.Logger
	Clock     func() time.Time
	Interval  time.Duration
}

// Report summarizes one tick.
type Report struct {
	Activated int
	Ended     int
	Failed    int
	Skipped   bool
}

// Scheduler activates PENDING sessions once they start and finalizes ACTIVE sessions once they end.
type Scheduler struct {
	sessions  storage.SessionStore
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
	interval  time.Duration

	cron    *cron.Cron
	running atomic.Bool
}

// New creates a Scheduler. Zero-valued options fall back to defaults.
func New(sessions storage.SessionStore, opts Options) *Scheduler {
	s := &Scheduler{
		sessions:  sessions,
		publisher: opts.Publisher,
		logger:    opts.Logger,
		now:       opts.Clock,
		interval:  opts.Interval,
	}
	if s.publisher == nil {
		s.publisher = events.NoOpPublisher{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	return s
}

// Start runs Tick every interval in the background until Stop is called.
func (s *Scheduler) Start() error {
	cronLogger := cron.VerbosePrintfLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))

	_, err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.interval)
		defer cancel()
		s.Tick(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule lifecycle tick: %w", err)
	}

	s.cron = c
	c.Start()
	s.logger.Info("lifecycle scheduler started", "interval", s.interval)
	return nil
}

// Stop prevents further ticks and waits for a running one to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("lifecycle scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tick performs every transition that is due now. Overlapping calls return a skipped report.
func (s *Scheduler) Tick(ctx context.Context) Report {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous lifecycle tick still running, skipping")
		return Report{Skipped: true}
	}
	defer s.running.Store(false)

	start := time.Now()
	now := s.now()
	var report Report

	s.activateDue(ctx, now, &report)
	s.finalizeDue(ctx, now, &report)

	metrics.ObserveTick(time.Since(start), report.Failed)
	if report.Activated > 0 || report.Ended > 0 || report.Failed > 0 {
		s.logger.Info("lifecycle tick finished", "activated", report.Activated, "ended", report.Ended, "failed", report.Failed)
	}
	return report
}

func (s *Scheduler) activateDue(ctx context.Context, now time.Time, report *Report) {
	pending, err := s.sessions.ListSessionsByStatus(ctx, models.PENDING)
	if err != nil {
		s.logger.Error("failed to list pending sessions", "error", err)
		report.Failed++
		return
	}

	for _, session := range pending {
		if now.Before(session.StartTime) {
			continue
		}

		sessionCtx, cancel := context.WithTimeout(ctx, sessionTimeout)
		activated, err := s.sessions.UpdateIfStatus(sessionCtx, session.Id, models.PENDING, func(session *models.AuctionSession) error {
			session.Status = models.ACTIVE
			session.UpdatedAt = now
			return nil
		})
		cancel()

		switch {
		case err == nil:
			report.Activated++
			metrics.ObserveTransition(string(models.ACTIVE))
			s.logger.Info("session activated", "session_id", session.Id)
			s.publish(ctx, events.ForSession(events.SessionActivated, activated, now))
		case errors.Is(err, storage.ErrConflict):
			// Cancelled or activated by someone else since we listed it.
			s.logger.Debug("session moved before activation", "session_id", session.Id)
		default:
			report.Failed++
			s.logger.Error("failed to activate session", "session_id", session.Id, "error", err)
		}
	}
}

func (s *Scheduler) finalizeDue(ctx context.Context, now time.Time, report *Report) {
	active, err := s.sessions.ListSessionsByStatus(ctx, models.ACTIVE)
	if err != nil {
		s.logger.Error("failed to list active sessions", "error", err)
		report.Failed++
		return
	}

	for i := range active {
		session := &active[i]
		if !now.After(session.EndTime) {
			continue
		}

		sessionCtx, cancel := context.WithTimeout(ctx, sessionTimeout)
		ended, err := s.finalize(sessionCtx, session, now)
		cancel()

		switch {
		case err != nil:
			report.Failed++
			s.logger.Error("failed to finalize session", "session_id", session.Id, "error", err)
		case ended != nil:
			report.Ended++
			metrics.ObserveTransition(string(models.ENDED))
			s.logger.Info("session ended", "session_id", ended.Id, "winner_id", ended.HighestBidderId, "final_price", ended.CurrentPrice)

			event := events.ForSession(events.SessionEnded, ended, now)
			event.BidderId = ended.HighestBidderId
			if ended.HasWinner() {
				event.Amount = ended.CurrentPrice
			}
			s.publish(ctx, event)
		}
	}
}

// finalize ends session, retrying once against a fresh read when a late bid moved its version.
// It returns nil, nil when someone else already closed the session.
func (s *Scheduler) finalize(ctx context.Context, session *models.AuctionSession, now time.Time) (*models.AuctionSession, error) {
	ended, err := s.sessions.FinalizeSession(ctx, session, now)
	if !errors.Is(err, storage.ErrConflict) {
		return ended, err
	}

	fresh, err := s.sessions.GetSession(ctx, session.Id)
	if err != nil {
		return nil, err
	}
	if fresh.Status != models.ACTIVE {
		return nil, nil
	}
	return s.sessions.FinalizeSession(ctx, fresh, now)
}

func (s *Scheduler) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "type", event.Type, "session_id", event.SessionId, "error", err)
	}
}
