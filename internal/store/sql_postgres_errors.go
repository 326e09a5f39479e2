package store

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells [DB.withRetry] whether a failed read may be run
// again.
type ErrorClassification int

const (
	NonRetryable ErrorClassification = iota
	Retryable
)

// PostgresErrorClassifier decides which PostgreSQL failures of the
// repository reads are transient.
//
// Reads of credentials, challenges, refresh tokens and keyrings sit on the
// ceremony and rotation paths, where a lost connection or a primary failover
// should not fail the user's login. Anything that says the data itself is
// wrong (constraint, data or schema errors) is returned at once, and so is a
// cancelled or timed-out context: the session manager fails closed on those.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NonRetryable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ClassifyPgError(pgErr)
	}

	// the request never reached the server
	if pgconn.SafeToRetry(err) {
		return Retryable
	}
	return NonRetryable
}

// retryablePgCodes lists the server errors a read survives by trying again.
var retryablePgCodes = map[string]struct{}{
	// connection lost or refused
	pgerrcode.ConnectionException:                           {},
	pgerrcode.ConnectionDoesNotExist:                        {},
	pgerrcode.ConnectionFailure:                             {},
	pgerrcode.SQLClientUnableToEstablishSQLConnection:       {},
	pgerrcode.SQLServerRejectedEstablishmentOfSQLConnection: {},
	// concurrent rotation or counter update won
	pgerrcode.SerializationFailure: {},
	pgerrcode.DeadlockDetected:     {},
	// server restarting or failing over
	pgerrcode.AdminShutdown:    {},
	pgerrcode.CrashShutdown:    {},
	pgerrcode.CannotConnectNow: {},
}

// ClassifyPgError maps a PostgreSQL error code to an [ErrorClassification].
// See https://www.postgresql.org/docs/current/errcodes-appendix.html.
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	if _, ok := retryablePgCodes[pgErr.Code]; ok {
		return Retryable
	}
	return NonRetryable
}
