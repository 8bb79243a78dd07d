package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/migrations"
)

// ClientStorages groups the on-device repositories around one [Handle].
type ClientStorages struct {
	Handle  *Handle
	Users   UserRepository
	Records RecordRepository
}

// NewClientStorages wires the device repositories to the database at path.
// The database is opened lazily on first use.
func NewClientStorages(path string, log *logger.Logger, opts ...migrations.ClientOption) *ClientStorages {
	log.Info().Msg("creating client storages...")

	handle := NewHandle(path, log, opts...)
	return &ClientStorages{
		Handle:  handle,
		Users:   NewUserRepository(handle, log),
		Records: NewRecordRepository(handle, log),
	}
}

// Close releases the device database.
func (s *ClientStorages) Close() error {
	return s.Handle.Close()
}

// ServerStorages groups the backup receiver's repositories.
type ServerStorages struct {
	db      *DB
	Backups BackupRepository
}

// NewServerStorages connects to PostgreSQL, applies the receiver migrations
// and returns the repositories.
func NewServerStorages(ctx context.Context, dsn string, log *logger.Logger) (*ServerStorages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, dsn, log)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err = migrations.Migrate(db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ServerStorages{
		db:      db,
		Backups: NewBackupRepository(db, log),
	}, nil
}

// Close releases the PostgreSQL pool.
func (s *ServerStorages) Close() error {
	return s.db.Close()
}
