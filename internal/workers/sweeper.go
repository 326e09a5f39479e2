package workers

import (
	"context"
	"sync"
	"time"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
)

// SweepFunc deletes stale records and reports how many it removed.
type SweepFunc func(ctx context.Context) (int64, error)

type sweeper struct {
	name     string
	interval time.Duration
	sweep    SweepFunc
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSweeper returns a worker calling sweep every interval. A failed sweep
// is logged and retried on the next tick.
func NewSweeper(name string, interval time.Duration, sweep SweepFunc, log *logger.Logger) Worker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &sweeper{name: name, interval: interval, sweep: sweep, logger: log}
}

func (s *sweeper) Start(ctx context.Context) {
	s.Stop()

	s.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		t := time.NewTicker(s.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				s.runOnce(jobCtx)
			}
		}
	}()
}

func (s *sweeper) runOnce(ctx context.Context) {
	n, err := s.sweep(ctx)
	switch {
	case err != nil && ctx.Err() != nil:
		// stopping
	case err != nil:
		s.logger.Warn().Err(err).Str("worker", s.name).Msg("sweep failed")
	case n > 0:
		s.logger.Info().Str("worker", s.name).Int64("deleted", n).Msg("sweep finished")
	}
}

func (s *sweeper) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}
