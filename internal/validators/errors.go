package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidRecordID  = errors.New("record id is required")
	ErrInvalidUserID    = errors.New("userId is required")
	ErrInvalidType      = errors.New("invalid record type")
	ErrInvalidEntryTime = errors.New("invalid entry_time")
	ErrInvalidLatitude  = errors.New("latitude out of range")
	ErrInvalidLongitude = errors.New("longitude out of range")
)
