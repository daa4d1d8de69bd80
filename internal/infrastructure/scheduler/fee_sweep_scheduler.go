// Package scheduler runs the periodic fee sweep, the safety net that
// re-generates fees for approved sources the event pipeline missed.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/clinic/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SweepRunner is the single-batch sweep the scheduler drives
type SweepRunner interface {
	Run(ctx context.Context) (int, error)
}

// FeeSweepScheduler runs the fee sweep on a fixed interval. Each run gets
// its own timeout so a stuck database call cannot wedge the loop.
type FeeSweepScheduler struct {
	runner     SweepRunner
	interval   time.Duration
	jobTimeout time.Duration
	logger     *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewFeeSweepScheduler creates a scheduler from the sweep configuration
func NewFeeSweepScheduler(cfg config.SchedulerConfig, runner SweepRunner, logger *zap.Logger) *FeeSweepScheduler {
	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	jobTimeout := cfg.JobTimeout
	if jobTimeout <= 0 {
		jobTimeout = 5 * time.Minute
	}
	return &FeeSweepScheduler{
		runner:     runner,
		interval:   interval,
		jobTimeout: jobTimeout,
		logger:     logger,
	}
}

// Start starts the sweep loop
func (s *FeeSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("fee sweep scheduler started",
		zap.Duration("interval", s.interval),
		zap.Duration("job_timeout", s.jobTimeout),
	)

	return nil
}

// Stop stops the sweep loop, waiting for an in-flight run to finish
func (s *FeeSweepScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("fee sweep scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *FeeSweepScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *FeeSweepScheduler) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.jobTimeout)
	defer cancel()

	processed, err := s.runner.Run(runCtx)
	if err != nil {
		// The next tick retries; sweep failures are never fatal
		s.logger.Error("fee sweep run failed", zap.Error(err))
		return
	}
	if processed > 0 {
		s.logger.Info("fee sweep recovered sources", zap.Int("processed", processed))
	}
}
