// Package workers runs the verifier's periodic housekeeping jobs: purging
// expired ceremony challenges and expired refresh tokens.
package workers

import (
	"context"
	"time"
)

// Worker is a background job that can be started and stopped.
//
// Start returns immediately; the job runs until ctx is cancelled or Stop is
// called. Stop blocks until the job has fully exited and is safe to call on
// a job that is not running.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}

// ChallengeSweeper purges expired challenges. The credential verifier
// implements it.
type ChallengeSweeper interface {
	SweepExpiredChallenges(ctx context.Context) (int64, error)
}

// TokenSweeper purges refresh tokens that expired before now.
type TokenSweeper interface {
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}
