package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/models"
)

// backupRepository is the PostgreSQL-backed implementation of
// [BackupRepository] used by the backup receiver.
type backupRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewBackupRepository constructs a [BackupRepository] backed by db.
func NewBackupRepository(db *DB, logger *logger.Logger) BackupRepository {
	logger.Debug().Msg("creating backup repository")
	return &backupRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert stores p in climate_backups keyed by its identifier.
//
// Error handling:
//   - retryable PostgreSQL classes (connection, rollback, resources) →
//     [ErrStorageUnavailable].
//   - any other driver error → [ErrBackupNotSaved].
func (r *backupRepository) Upsert(ctx context.Context, p models.BackupPayload) error {
	log := logger.FromContext(ctx)

	entryTime, err := p.EntryTimeValue()
	if err != nil {
		return fmt.Errorf("%w: entry_time: %w", ErrValidation, err)
	}

	_, err = r.db.ExecContext(ctx, upsertBackup,
		p.ID,
		p.UserID,
		p.StudySite,
		p.Type,
		nullText(p.Date),
		nullText(p.Month),
		p.Min,
		p.Max,
		p.Mean,
		p.Total,
		p.DeviceCode,
		p.Latitude,
		p.Longitude,
		entryTime,
	)
	if err != nil {
		log.Err(err).
			Str("func", "*backupRepository.Upsert").
			Str("record_id", p.ID).
			Str("pg_code", postgresError(err)).
			Msg("error upserting backup record")

		if r.db.errorClassificator.Classify(err) == Retryable {
			return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		return fmt.Errorf("%w: %w", ErrBackupNotSaved, err)
	}

	return nil
}
