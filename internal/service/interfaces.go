package service

import (
	"context"
	"iter"
	"time"

	"github.com/MKhiriev/go-climate-keeper/models"
)

// RecordService is the field client's entry point for climate records. It
// normalizes caller input, allocates identifiers and delegates persistence
// to the record repository.
type RecordService interface {
	// Insert validates and normalizes draft, allocates an identifier when
	// draft.ID is empty, and stores the record as Pending with entry_time set
	// to now. It returns the identifier of the stored record.
	Insert(ctx context.Context, draft models.RecordDraft) (string, error)

	// Update overwrites the record identified by draft.ID. state defaults to
	// Pending when nil; a Synced record is never demoted.
	Update(ctx context.Context, draft models.RecordDraft, state *models.SyncState) error

	// Delete removes a record. Deleting an absent record is not an error.
	Delete(ctx context.Context, id string) error

	Get(ctx context.Context, id string) (models.ClimateRecord, error)
	ListAll(ctx context.Context) ([]models.ClimateRecord, error)
	ListPending(ctx context.Context) ([]models.ClimateRecord, error)
	List(ctx context.Context, filter models.RecordFilter) ([]models.ClimateRecord, error)
	Records(ctx context.Context, filter models.RecordFilter) iter.Seq2[models.ClimateRecord, error]

	// ExportPath returns the absolute path of the on-device database file.
	ExportPath() (string, error)
}

// SessionService manages the single device session.
type SessionService interface {
	// Login starts a session for the matching account. Any previous session
	// ends even when the credentials do not match.
	Login(ctx context.Context, username, password string) (models.User, error)
	CurrentUser(ctx context.Context) (models.User, bool, error)
	Logout(ctx context.Context) error
	// SetRegion assigns the region used for region-prefixed identifiers.
	SetRegion(ctx context.Context, userID, region string) error
}

// SyncService uploads pending records to the backup endpoint.
type SyncService interface {
	// SyncPending submits every pending record once, in listing order, and
	// reports per-record results. The returned error is non-nil only when the
	// batch itself failed: pending records could not be listed or ctx ended.
	SyncPending(ctx context.Context) (models.SyncReport, error)
}

// SyncJob runs SyncPending periodically in the background.
type SyncJob interface {
	// Start launches the job. A running job is stopped first.
	Start(ctx context.Context, interval time.Duration)
	// Run syncs immediately and then on every tick until ctx ends.
	Run(ctx context.Context, interval time.Duration)
	// Stop cancels the job and waits for it to exit.
	Stop()
}

// BackupService persists submissions accepted by the backup receiver.
type BackupService interface {
	// Store validates p and upserts it. Validation failures wrap
	// [ErrInvalidDataProvided].
	Store(ctx context.Context, p models.BackupPayload) error
}

// AppInfoService exposes build metadata of the running process.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
