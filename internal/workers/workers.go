package workers

import (
	"context"
	"time"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/config"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
)

type Workers struct {
	workers []Worker
}

// NewWorkers builds the challenge and refresh-token sweepers.
func NewWorkers(cfg config.Workers, challenges ChallengeSweeper, tokens TokenSweeper, log *logger.Logger) *Workers {
	return &Workers{workers: []Worker{
		NewSweeper("challenge-sweeper", cfg.ChallengeSweepInterval, challenges.SweepExpiredChallenges, log),
		NewSweeper("refresh-token-sweeper", cfg.TokenSweepInterval, func(ctx context.Context) (int64, error) {
			return tokens.DeleteExpiredRefreshTokens(ctx, time.Now())
		}, log),
	}}
}

func (w *Workers) Start(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Start(ctx)
	}
}

func (w *Workers) Stop() {
	for _, worker := range w.workers {
		worker.Stop()
	}
}

// Run starts every worker and blocks until ctx is done, then stops them.
func (w *Workers) Run(ctx context.Context) {
	w.Start(ctx)
	<-ctx.Done()
	w.Stop()
}
