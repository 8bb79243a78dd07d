package idgen

import "context"

// Allocator issues identifiers for new climate records.
//
//go:generate mockgen -source=interfaces.go -destination=../mock/idgen_mock.go -package=mock
type Allocator interface {
	// NewRecordID returns an identifier not used by any stored record.
	NewRecordID(ctx context.Context, userID, region string) (string, error)
}
