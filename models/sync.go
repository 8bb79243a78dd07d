// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// SyncState is the confirmation state of a record. The numeric values are
// the persisted codes and stay compatible with rows written by older app
// versions.
type SyncState int

const (
	// SyncStateDraft is a legacy pre-submission code. It is never written,
	// and rows carrying it are treated as Pending.
	SyncStateDraft SyncState = 0

	// SyncStateSynced means the remote endpoint accepted the record. Terminal.
	SyncStateSynced SyncState = 1

	// SyncStatePending means the record is stored locally and awaits upload.
	SyncStatePending SyncState = 2
)

// Normalize folds legacy and unknown codes into Pending.
func (s SyncState) Normalize() SyncState {
	if s == SyncStateSynced {
		return SyncStateSynced
	}
	return SyncStatePending
}

func (s SyncState) String() string {
	switch s {
	case SyncStateSynced:
		return "synced"
	case SyncStatePending:
		return "pending"
	case SyncStateDraft:
		return "draft"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// SyncOutcome summarizes a sync batch.
type SyncOutcome string

const (
	SyncOutcomeNothingToSync SyncOutcome = "nothing_to_sync"
	SyncOutcomeCompleted     SyncOutcome = "completed"
	SyncOutcomePartial       SyncOutcome = "partial"
	SyncOutcomeFailed        SyncOutcome = "failed"
)

// RecordFailure describes why a single record was not confirmed.
type RecordFailure struct {
	RecordID string
	Err      error
}

// SyncReport aggregates per-record results of one sync batch.
type SyncReport struct {
	Total           int
	Synced          int
	Rejected        int
	TransportFailed int
	StoreFailed     int
	Skipped         int
	Failures        []RecordFailure
	Outcome         SyncOutcome
}

// Failed returns the number of records that were attempted and not confirmed.
func (r SyncReport) Failed() int {
	return r.Rejected + r.TransportFailed + r.StoreFailed
}

// Finalize derives Outcome from the counters and returns the report.
func (r SyncReport) Finalize() SyncReport {
	switch {
	case r.Total == 0:
		r.Outcome = SyncOutcomeNothingToSync
	case r.Synced == r.Total:
		r.Outcome = SyncOutcomeCompleted
	case r.Synced == 0:
		r.Outcome = SyncOutcomeFailed
	default:
		r.Outcome = SyncOutcomePartial
	}
	return r
}

func (r SyncReport) String() string {
	return fmt.Sprintf("%s: %d synced, %d rejected, %d transport failed, %d store failed, %d skipped of %d",
		r.Outcome, r.Synced, r.Rejected, r.TransportFailed, r.StoreFailed, r.Skipped, r.Total)
}
