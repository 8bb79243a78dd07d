package service

import "errors"

var (
	// ErrRejected marks a record the backup endpoint explicitly refused.
	// The record stays pending and is retried on the next sync.
	ErrRejected = errors.New("record rejected by backup endpoint")

	// ErrSyncInProgress is returned when a sync batch is requested while
	// another one is still running.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrInvalidCredentials is returned when no account matches a login.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidDataProvided is returned by the backup service when a decoded
	// submission fails validation.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
