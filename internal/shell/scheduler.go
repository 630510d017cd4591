package shell

import (
	"context"
	"time"

	"github.com/lochfern/bingwall/internal/prefs"
	"go.uber.org/zap"

	"github.com/lochfern/bingwall/internal/domain"
)

// Scheduler owns the periodic trigger: it runs one download pass
// immediately on start and then once per configured interval. The engine
// has no scheduling of its own.
type Scheduler struct {
	logger   *zap.Logger
	ctrl     *Controller
	prefs    *prefs.Store
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates the periodic download trigger.
func NewScheduler(logger *zap.Logger, ctrl *Controller, store *prefs.Store, cfg domain.Config) *Scheduler {
	return &Scheduler{
		logger:   logger,
		ctrl:     ctrl,
		prefs:    store,
		interval: cfg.FetchInterval(),
	}
}

// Start launches the scheduler loop in a goroutine and returns immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	s.logger.Info("scheduler started", zap.Duration("interval", s.interval))
	go s.run(runCtx)
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.pass(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.pass(ctx)
		}
	}
}

func (s *Scheduler) pass(ctx context.Context) {
	if !s.prefs.AutoDownload() {
		s.logger.Debug("auto download disabled, skipping pass")
		return
	}
	if err := s.ctrl.Download(ctx); err != nil {
		// Partial progress is kept on disk; the next tick picks up from there.
		s.logger.Error("download pass failed", zap.Error(err))
	}
}

// Stop cancels the loop and waits for it to drain.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
