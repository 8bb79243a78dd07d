package store

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrValidation is returned when a record is missing a required field or
	// carries a malformed value. The write is not attempted.
	ErrValidation = errors.New("validation error")

	// ErrFormat is returned when a date or month value does not match an
	// accepted layout. It wraps [ErrValidation].
	ErrFormat = fmt.Errorf("%w: format error", ErrValidation)

	// ErrReference is returned when a record references a user that does not
	// exist. No row is written.
	ErrReference = errors.New("reference error: user does not exist")

	// ErrRecordNotFound is returned when an update or state transition
	// targets an identifier with no stored record.
	ErrRecordNotFound = errors.New("climate record was not found")

	// ErrRecordExists is returned when an insert supplies an identifier that
	// is already stored. It wraps [ErrValidation].
	ErrRecordExists = fmt.Errorf("%w: climate record already exists", ErrValidation)

	// ErrNoUserWasFound is returned when a query expected to match a user
	// produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrBackupNotSaved is returned when the receiver could not persist an
	// accepted backup submission.
	ErrBackupNotSaved = errors.New("backup record was not saved")

	// ErrStorageUnavailable marks failures the database reported as
	// transient. A later attempt may succeed.
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the driver cannot start a
	// new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRows is returned when scanning column values fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
