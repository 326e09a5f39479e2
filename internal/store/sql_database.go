package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/mattn/go-sqlite3"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/migrations"
)

// ErrorClassificator decides whether a failed statement may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// DB is a SQL connection together with its dialect. Every repository built
// from it shares the same placeholder format and error classification.
type DB struct {
	*sql.DB
	dialect            string
	builder            sq.StatementBuilderType
	errorClassificator ErrorClassificator
	logger             *logger.Logger

	retryAttempts int
	retryBackoff  time.Duration
}

func newDB(conn *sql.DB, dialect string, classifier ErrorClassificator, log *logger.Logger) *DB {
	var placeholder sq.PlaceholderFormat = sq.Question
	if dialect == migrations.DialectPostgres {
		placeholder = sq.Dollar
	}

	return &DB{
		DB:                 conn,
		dialect:            dialect,
		builder:            sq.StatementBuilder.PlaceholderFormat(placeholder),
		errorClassificator: classifier,
		logger:             log,
		retryAttempts:      3,
		retryBackoff:       50 * time.Millisecond,
	}
}

// Migrate applies the embedded schema for the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// Storages wires every SQL repository to db.
func (db *DB) Storages() *Storages {
	return &Storages{
		Credentials:   NewCredentialRepository(db, db.logger),
		Challenges:    NewChallengeRepository(db, db.logger),
		Sessions:      NewSessionRepository(db, db.logger),
		RefreshTokens: NewRefreshTokenRepository(db, db.logger),
		Keyrings:      NewKeyringRepository(db, db.logger),
		Journal:       NewJournalRepository(db, db.logger),
		closers:       []func() error{db.Close},
	}
}

// withRetry runs fn again while the classifier reports a retryable failure.
// Only idempotent reads go through it.
func (db *DB) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || db.errorClassificator == nil || attempt >= db.retryAttempts {
			return err
		}
		if db.errorClassificator.Classify(err) != Retryable {
			return err
		}

		logger.FromContext(ctx).Debug().Err(err).Int("attempt", attempt).Msg("retrying statement")
		select {
		case <-ctx.Done():
			return err
		case <-time.After(db.retryBackoff * time.Duration(attempt)):
		}
	}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execAffecting runs a built statement on ex (the pool or a transaction) and
// returns the number of affected rows.
func execAffecting(ctx context.Context, ex execer, builder sq.Sqlizer) (int64, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrAlreadyExists
		}
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return n, nil
}

// inTx runs fn inside a transaction, committing on success.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if code := postgresError(err); code != "" {
		return code == pgerrcode.UniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %w", ErrScanningRow, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}
