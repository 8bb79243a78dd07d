// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// backup receiver handlers and services.
//
// All Msg* constants are human-readable message strings written into HTTP
// error bodies or log entries, so the receiver describes the outcome of a
// submission with the same wording everywhere.
package app

const (
	// MsgSubmissionRejected is logged when a submission cannot be decoded or
	// fails validation and is answered with the rejection reply.
	MsgSubmissionRejected = "submission rejected"

	// MsgSubmissionStored is logged once a submission has been upserted.
	MsgSubmissionStored = "submission stored"

	// MsgErrorStoringSubmission is logged when the database refused a
	// well-formed submission.
	MsgErrorStoringSubmission = "error storing submission"

	// MsgStorageUnavailable is the body of a 503 reply, sent when the
	// database failed with a retryable error.
	MsgStorageUnavailable = "storage temporarily unavailable"

	// MsgInternalServerError is the body of a 500 reply.
	MsgInternalServerError = "internal server error"
)
