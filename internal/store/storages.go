package store

import (
	"context"
	"fmt"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/config"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
)

// Storages groups every repository so it can be passed around as one value.
type Storages struct {
	Credentials   CredentialRepository
	Challenges    ChallengeRepository
	Sessions      SessionRepository
	RefreshTokens RefreshTokenRepository
	Keyrings      KeyringRepository
	Journal       JournalRepository

	closers []func() error
}

// NewStorages opens the backend selected by cfg.DB.Driver, applies
// migrations for SQL backends, and, when cfg.Redis.Address is set, moves
// challenges to Redis.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Str("driver", cfg.DB.Driver).Msg("creating new storages...")

	var storages *Storages
	switch cfg.DB.Driver {
	case config.DriverMemory, "":
		storages = NewMemory().Storages()
	case config.DriverSQLite, config.DriverPostgres:
		var (
			db  *DB
			err error
		)
		if cfg.DB.Driver == config.DriverSQLite {
			db, err = NewConnectSQLite(ctx, cfg.DB, log)
		} else {
			db, err = NewConnectPostgres(ctx, cfg.DB, log)
		}
		if err != nil {
			return nil, fmt.Errorf("%s connection error: %w", cfg.DB.Driver, err)
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		storages = db.Storages()
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.DB.Driver)
	}

	if cfg.Redis.Address != "" {
		challenges, err := NewConnectRedis(ctx, cfg.Redis, log)
		if err != nil {
			_ = storages.Close()
			return nil, fmt.Errorf("redis connection error: %w", err)
		}
		storages.Challenges = challenges
		storages.closers = append(storages.closers, challenges.Close)
	}

	log.Info().Msg("storages created")
	return storages, nil
}

// Close releases every connection opened by NewStorages.
func (s *Storages) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}
