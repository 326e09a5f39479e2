package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrNotFound is returned when a record addressed by its key does not
	// exist, or was already consumed.
	ErrNotFound = errors.New("record was not found")

	// ErrAlreadyExists is returned when an insert collides with an existing
	// primary or unique key.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrExpired is returned when a single-use record was found but its
	// expiry has passed. The record is removed as part of the lookup.
	ErrExpired = errors.New("record has expired")

	// ErrStaleToken is returned when a refresh-token rotation loses its
	// compare-and-swap: the token was no longer valid at write time.
	ErrStaleToken = errors.New("refresh token is no longer valid")

	// ErrStaleCounter is returned when a credential usage update loses its
	// compare-and-swap on the signature counter.
	ErrStaleCounter = errors.New("credential counter changed concurrently")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrEncodingColumn is returned when a structured column (JSON) cannot
	// be encoded or decoded.
	ErrEncodingColumn = errors.New("failed to encode column")
)
