// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport used by the field client to submit
// climate records to the remote backup endpoint.
//
// The primary abstraction is [BackupAdapter], which decouples the sync engine
// from the underlying protocol. The package ships an HTTP implementation
// ([NewHTTPBackupAdapter]) that posts one form-encoded record per request and
// returns the endpoint's plain-text reply.
//
// Every failure to obtain a usable reply wraps [ErrTransport], so callers can
// tell transport problems apart from an explicit rejection with [errors.Is].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-climate-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/backup_adapter_mock.go -package=mock

// BackupAdapter submits single records to the remote backup endpoint.
type BackupAdapter interface {
	// Submit posts p and returns the endpoint's reply body. A returned error
	// means no usable reply was obtained: the request failed or timed out, the
	// status was not 2xx, or the reply was not text.
	Submit(ctx context.Context, p models.BackupPayload) (string, error)
}
