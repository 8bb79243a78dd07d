package store

import (
	"context"
	"iter"

	"github.com/MKhiriev/go-climate-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ErrorClassificator decides whether a database error is transient.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// UserRepository is the on-device session store.
type UserRepository interface {
	// ValidateLogin clears every session flag, then sets it on the user
	// matching both credentials. ok is false when no user matched.
	ValidateLogin(ctx context.Context, username, password string) (user models.User, ok bool, err error)
	// CurrentUser returns the user holding the session, if any.
	CurrentUser(ctx context.Context) (user models.User, ok bool, err error)
	// Logout clears the session flag on every user.
	Logout(ctx context.Context) error
	// GetUser returns the user with id or [ErrNoUserWasFound].
	GetUser(ctx context.Context, id string) (models.User, error)
	// AssignRegion sets the region used for region-prefixed identifiers.
	AssignRegion(ctx context.Context, id, region string) error
}

// RecordRepository persists climate records on the device.
type RecordRepository interface {
	Insert(ctx context.Context, record models.ClimateRecord) error
	Update(ctx context.Context, record models.ClimateRecord, state models.SyncState) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (models.ClimateRecord, error)
	ListAll(ctx context.Context) ([]models.ClimateRecord, error)
	ListPending(ctx context.Context) ([]models.ClimateRecord, error)
	List(ctx context.Context, filter models.RecordFilter) ([]models.ClimateRecord, error)
	Records(ctx context.Context, filter models.RecordFilter) iter.Seq2[models.ClimateRecord, error]
	MarkSynced(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// BackupRepository persists submissions accepted by the backup receiver.
type BackupRepository interface {
	// Upsert stores p keyed by its identifier. Repeated submissions of the
	// same identifier overwrite the stored fields.
	Upsert(ctx context.Context, p models.BackupPayload) error
}
