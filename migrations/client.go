// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package migrations holds the versioned schema of the on-device SQLite store
// and of the backup receiver's PostgreSQL database.
//
// The device schema is applied with a goose Provider. Versions 1 and 4 are
// SQL files; versions 2 and 3 are Go migrations that inspect and convert
// rows written by older app releases. Every Go migration runs inside the
// transaction goose opens on its own connection, so the store may keep a
// single open connection.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql
var embedSQLiteMigrations embed.FS

// ClientVersion is the schema version reached by MigrateClient.
const ClientVersion int64 = 4

// ClientOption customizes MigrateClient.
type ClientOption func(*clientMigrator)

// WithClock overrides the time source used to repair legacy rows.
func WithClock(now func() time.Time) ClientOption {
	return func(m *clientMigrator) {
		m.now = now
	}
}

// WithLocation overrides the zone in which legacy timestamps are rendered.
func WithLocation(loc *time.Location) ClientOption {
	return func(m *clientMigrator) {
		m.loc = loc
	}
}

type clientMigrator struct {
	log *logger.Logger
	now func() time.Time
	loc *time.Location
}

// MigrateClient brings the on-device database to [ClientVersion]. It is
// idempotent: applied versions are tracked in goose_db_version and skipped.
func MigrateClient(ctx context.Context, db *sql.DB, log *logger.Logger, opts ...ClientOption) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	m := &clientMigrator{log: log, now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(m)
	}

	fsys, err := fs.Sub(embedSQLiteMigrations, "sqlite")
	if err != nil {
		return fmt.Errorf("migration error opening embedded files: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys,
		goose.WithDisableGlobalRegistry(true),
		goose.WithGoMigrations(m.goMigrations()...),
	)
	if err != nil {
		return fmt.Errorf("migration error creating provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	for _, r := range results {
		log.Info().
			Str("func", "MigrateClient").
			Int64("version", r.Source.Version).
			Dur("duration", r.Duration).
			Msg("applied schema migration")
	}

	return nil
}

func (m *clientMigrator) goMigrations() []*goose.Migration {
	return []*goose.Migration{
		goose.NewGoMigration(2,
			&goose.GoFunc{RunTx: m.addMissingColumns, Mode: goose.TransactionEnabled},
			&goose.GoFunc{Mode: goose.TransactionEnabled},
		),
		goose.NewGoMigration(3,
			&goose.GoFunc{RunTx: m.convertToStringIdentifiers, Mode: goose.TransactionEnabled},
			&goose.GoFunc{Mode: goose.TransactionEnabled},
		),
	}
}
