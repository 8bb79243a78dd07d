package validators

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/MKhiriev/go-climate-keeper/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate to restrict validation to a subset
// of fields (field-level scoping).
const (
	// FieldID targets the record identifier.
	FieldID = "id"

	// FieldUserID targets the owning user identifier.
	FieldUserID = "user_id"

	// FieldType targets the record type.
	FieldType = "type"

	// FieldEntryTime targets the creation timestamp of a submitted record.
	FieldEntryTime = "entry_time"

	// FieldCoordinates targets latitude and longitude. Absent values pass.
	FieldCoordinates = "coordinates"
)

// ClimateRecordValidator implements the Validator interface for
// [models.RecordDraft] and [models.BackupPayload].
//
// It supports both value and pointer receivers for every model type
// and allows optional field-level scoping via variadic field name arguments.
type ClimateRecordValidator struct {
}

// NewClimateRecordValidator constructs a new ClimateRecordValidator
// and returns it as the Validator interface.
func NewClimateRecordValidator() Validator {
	return &ClimateRecordValidator{}
}

// Validate dispatches validation to the appropriate type-specific method.
// Unsupported types yield [ErrUnsupportedType].
func (v *ClimateRecordValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RecordDraft:
		return v.validateDraft(value, fields...)
	case *models.RecordDraft:
		return v.validateDraft(*value, fields...)

	case models.BackupPayload:
		return v.validatePayload(value, fields...)
	case *models.BackupPayload:
		return v.validatePayload(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateDraft checks a record draft. The identifier is optional on drafts,
// so FieldID is only checked when asked for explicitly.
func (v *ClimateRecordValidator) validateDraft(draft models.RecordDraft, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldType, FieldCoordinates}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if strings.TrimSpace(draft.ID) == "" {
				return ErrInvalidRecordID
			}
		case FieldUserID:
			if strings.TrimSpace(draft.UserID) == "" {
				return ErrInvalidUserID
			}
		case FieldType:
			if !draft.Type.Valid() {
				return ErrInvalidType
			}
		case FieldCoordinates:
			if err := validateCoordinates(draft.Latitude, draft.Longitude); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *ClimateRecordValidator) validatePayload(p models.BackupPayload, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldUserID, FieldType, FieldEntryTime}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if strings.TrimSpace(p.ID) == "" {
				return ErrInvalidRecordID
			}
		case FieldUserID:
			if strings.TrimSpace(p.UserID) == "" {
				return ErrInvalidUserID
			}
		case FieldType:
			if !models.RecordType(p.Type).Valid() {
				return ErrInvalidType
			}
		case FieldEntryTime:
			if _, err := time.Parse(time.RFC3339Nano, p.EntryTime); err != nil {
				return ErrInvalidEntryTime
			}
		case FieldCoordinates:
			if err := validateCoordinates(p.Latitude, p.Longitude); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateCoordinates(lat, lon *float64) error {
	if lat != nil && (math.IsNaN(*lat) || *lat < -90 || *lat > 90) {
		return ErrInvalidLatitude
	}
	if lon != nil && (math.IsNaN(*lon) || *lon < -180 || *lon > 180) {
		return ErrInvalidLongitude
	}
	return nil
}
