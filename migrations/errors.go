package migrations

import (
	"errors"
	"fmt"
)

// ErrMigration is the base error of a legacy row that could not be converted
// verbatim. Such rows are repaired or skipped; they never abort a pass.
var ErrMigration = errors.New("migration error")

// MigrationError describes a single repaired or skipped legacy row.
type MigrationError struct {
	Table  string
	RowID  string
	Column string
	Raw    any
	Reason string
}

func (e *MigrationError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: %s row %s: %s", ErrMigration, e.Table, e.RowID, e.Reason)
	}
	return fmt.Sprintf("%s: %s row %s column %s: %s (raw %v)", ErrMigration, e.Table, e.RowID, e.Column, e.Reason, e.Raw)
}

func (e *MigrationError) Unwrap() error {
	return ErrMigration
}
