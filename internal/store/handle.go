// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/migrations"
)

// ErrHandleClosed is returned by [Handle.DB] after [Handle.Close].
var ErrHandleClosed = errors.New("storage handle is closed")

// Handle owns the on-device database. The connection is opened and the
// schema is ensured on first use; concurrent first callers share one
// initialization and every later caller receives the cached connection.
// A failed initialization is not cached, so the next call retries it.
// Initialization ignores the cancellation of the caller that triggered it.
type Handle struct {
	path   string
	log    *logger.Logger
	opts   []migrations.ClientOption
	group  singleflight.Group
	mu     sync.RWMutex
	db     *DB
	closed bool
}

// NewHandle returns a Handle for the database file at path. Nothing is
// opened until [Handle.DB] is called.
func NewHandle(path string, log *logger.Logger, opts ...migrations.ClientOption) *Handle {
	return &Handle{
		path: path,
		log:  log,
		opts: opts,
	}
}

// DB returns the ready-to-use connection, initializing it on first call.
func (h *Handle) DB(ctx context.Context) (*DB, error) {
	if db, err := h.cached(); db != nil || err != nil {
		return db, err
	}

	v, err, shared := h.group.Do(h.path, func() (any, error) {
		if db, err := h.cached(); db != nil || err != nil {
			return db, err
		}

		// Shared by every waiter, so it must outlive the caller that started it.
		initCtx := context.WithoutCancel(ctx)
		db, err := NewConnectSQLite(initCtx, h.path, h.log)
		if err != nil {
			return nil, err
		}
		if err = EnsureSchema(initCtx, db, h.log, h.opts...); err != nil {
			_ = db.Close()
			return nil, err
		}

		h.mu.Lock()
		defer h.mu.Unlock()
		if h.closed {
			_ = db.Close()
			return nil, ErrHandleClosed
		}
		h.db = db
		return db, nil
	})
	if err != nil {
		h.log.Err(err).Str("func", "*Handle.DB").Str("path", h.path).Bool("shared", shared).Msg("storage initialization failed")
		return nil, fmt.Errorf("error opening storage: %w", err)
	}

	return v.(*DB), nil
}

func (h *Handle) cached() (*DB, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil, ErrHandleClosed
	}
	return h.db, nil
}

// ExportPath returns the absolute location of the database file so that it
// can be copied off the device.
func (h *Handle) ExportPath() (string, error) {
	return filepath.Abs(h.path)
}

// Close releases the connection. Further calls to [Handle.DB] fail.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	if h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	return err
}
