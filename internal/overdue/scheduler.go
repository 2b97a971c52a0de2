package overdue

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler invokes the closer on a fixed interval until stopped. Each
// run is synchronous and independent; a failed run is logged and the
// next tick tries again.
type Scheduler struct {
	closer   *Closer
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a Scheduler that runs the closer every interval.
func NewScheduler(closer *Closer, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		closer:   closer,
		interval: interval,
		logger:   logger.With("component", "overdue_scheduler"),
	}
}

// Start launches the ticker goroutine. It returns immediately.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("overdue scheduler started", "interval", s.interval.String())
}

// Stop cancels the ticker goroutine and waits for any in-flight run to
// finish.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.logger.Info("overdue scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.closer.CloseOverdue(ctx); err != nil {
				s.logger.Error("scheduled overdue close failed", "error", err)
			}
		}
	}
}
