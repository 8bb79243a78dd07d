// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors produced while reading a backup submission. Both are
// answered with the rejection reply rather than an HTTP error status.
var (
	// ErrMissingFormField is returned when the submission has no
	// non-empty "data" form field.
	ErrMissingFormField = errors.New("missing `data` form field")

	// ErrDecodingPayload is returned when the "data" field does not hold a
	// well-formed positional record array.
	ErrDecodingPayload = errors.New("error decoding backup payload")
)
