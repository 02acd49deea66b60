package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultInterval is how often the scheduler sweeps when no interval is configured.
const DefaultInterval = 30 * time.Second

// Target is whatever owns the board and can sweep it safely.
type Target interface {
	Sweep() Result
}

// Scheduler runs Target.Sweep on a fixed interval. Ticks never overlap.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler registers a repeating sweep of target. Intervals under a second are rounded up.
func NewScheduler(target Target, interval time.Duration, logger *zap.Logger) (*Scheduler, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cl := cronLogger{logger: logger.Named("cron")}
	s := &Scheduler{
		logger: logger,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}

	seconds := max(int(interval.Seconds()), 1)
	schedule := fmt.Sprintf("@every %ds", seconds)
	if _, err := s.cron.AddFunc(schedule, func() {
		if r := target.Sweep(); r.Changed() {
			s.logger.Info("sweep applied", zap.Int("cleared", r.Cleared), zap.Int("expired", r.Expired))
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule sweep %q: %w", schedule, err)
	}
	return s, nil
}

// Start launches the cron scheduler.
func (s *Scheduler) Start() {
	if s == nil || s.cron == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("sweep scheduler started")
}

// Stop halts scheduling and waits for a running sweep or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	if s == nil || s.cron == nil {
		return
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.Info("sweep scheduler stopped")
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
