package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-climate-keeper/internal/idgen"
	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/migrations"
	"github.com/MKhiriev/go-climate-keeper/models"
)

// DefaultAccounts is the operator set provisioned on every device.
var DefaultAccounts = []models.ProvisioningAccount{
	{Username: "admin", Password: "1234", FullName: "Roban Khan Anik"},
	{Username: "user", Password: "0000", FullName: "Pampi Rani Das"},
	{Username: "user1", Password: "1111", FullName: "Arif Hossain"},
	{Username: "user2", Password: "2222", FullName: "Sadia Afrin"},
	{Username: "user3", Password: "3333", FullName: "Riyad Hasan"},
	{Username: "user4", Password: "4444", FullName: "Farzana Khatun"},
	{Username: "user5", Password: "5555", FullName: "Kamal Uddin"},
	{Username: "user6", Password: "6666", FullName: "Tanvir Islam"},
	{Username: "user7", Password: "7777", FullName: "Nasrin Sultana"},
	{Username: "user8", Password: "8888", FullName: "Ashik Rahman"},
}

// EnsureSchema migrates the device database to the current layout and seeds
// [DefaultAccounts]. It is safe to call on every start: applied migrations
// are skipped and existing usernames are left untouched.
func EnsureSchema(ctx context.Context, db *DB, log *logger.Logger, opts ...migrations.ClientOption) error {
	if err := migrations.MigrateClient(ctx, db.DB, log, opts...); err != nil {
		return fmt.Errorf("error migrating storage: %w", err)
	}

	if err := seedAccounts(ctx, db, DefaultAccounts); err != nil {
		log.Err(err).Str("func", "EnsureSchema").Msg("error seeding accounts")
		return err
	}
	return nil
}

func seedAccounts(ctx context.Context, db *DB, accounts []models.ProvisioningAccount) error {
	return db.inTx(ctx, func(tx *sql.Tx) error {
		for _, acc := range accounts {
			if _, err := tx.ExecContext(ctx, seedUser, idgen.NewUUID(), acc.Username, acc.Password, acc.FullName); err != nil {
				return fmt.Errorf("%w: seeding %q: %w", ErrExecutingStatement, acc.Username, db.classify(err))
			}
		}
		return nil
	})
}
