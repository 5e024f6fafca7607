package system

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler drives a Runner at a fixed cadence until the context is
// cancelled. The behavior cadence is deliberately decoupled from whatever
// frame rate the hosting environment renders at; a slow tick never backs up
// (ticker drops missed firings) and no system runs after Run returns.
type Scheduler struct {
	runner   *Runner
	interval time.Duration
	log      *zap.Logger

	ticks uint64
}

func NewScheduler(runner *Runner, interval time.Duration, log *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Scheduler{runner: runner, interval: interval, log: log}
}

// Run blocks, ticking the runner every interval, until ctx is cancelled.
// The final tick completes before Run returns, so callers never observe a
// half-applied tick after cancellation.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("behavior loop started", zap.Duration("tick", s.interval))
	for {
		select {
		case <-ticker.C:
			s.runner.Tick(s.interval)
			s.ticks++
		case <-ctx.Done():
			s.log.Info("behavior loop stopped", zap.Uint64("ticks", s.ticks))
			return
		}
	}
}

// Ticks reports how many ticks have run. Read from the loop goroutine only.
func (s *Scheduler) Ticks() uint64 { return s.ticks }
