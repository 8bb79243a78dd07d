package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/models"
)

// userRepository is the SQLite-backed implementation of [UserRepository].
// Accounts are provisioned by [EnsureSchema]; this repository only moves the
// session flag and the region assignment.
//
// All methods obtain a context-scoped logger via [logger.FromContext].
type userRepository struct {
	logger *logger.Logger
	handle *Handle
}

// NewUserRepository constructs a [UserRepository] on top of handle.
func NewUserRepository(handle *Handle, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		handle: handle,
		logger: logger,
	}
}

// ValidateLogin clears every session flag and sets it on the account whose
// username and password both match, in one transaction. When nothing
// matches no user holds the session afterwards and ok is false.
func (r *userRepository) ValidateLogin(ctx context.Context, username, password string) (models.User, bool, error) {
	log := logger.FromContext(ctx)

	db, err := r.handle.DB(ctx)
	if err != nil {
		return models.User{}, false, err
	}

	var (
		user models.User
		ok   bool
	)
	err = db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, clearSessions); err != nil {
			return fmt.Errorf("%w: clearing sessions: %w", ErrExecutingStatement, db.classify(err))
		}

		res, err := tx.ExecContext(ctx, startSession, username, password)
		if err != nil {
			return fmt.Errorf("%w: starting session: %w", ErrExecutingStatement, db.classify(err))
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}

		user, err = scanUser(tx.QueryRowContext(ctx, findUserByUsername, username))
		if err != nil {
			return err
		}
		ok = true
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ValidateLogin").Str("username", username).Msg("login transaction failed")
		return models.User{}, false, err
	}

	return user, ok, nil
}

// CurrentUser returns the account holding the session.
func (r *userRepository) CurrentUser(ctx context.Context) (models.User, bool, error) {
	log := logger.FromContext(ctx)

	db, err := r.handle.DB(ctx)
	if err != nil {
		return models.User{}, false, err
	}

	user, err := scanUser(db.QueryRowContext(ctx, findLoggedInUser))
	if errors.Is(err, ErrNoUserWasFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CurrentUser").Msg("error reading session")
		return models.User{}, false, db.classify(err)
	}

	return user, true, nil
}

// Logout clears the session flag on every account.
func (r *userRepository) Logout(ctx context.Context) error {
	log := logger.FromContext(ctx)

	db, err := r.handle.DB(ctx)
	if err != nil {
		return err
	}

	if _, err = db.ExecContext(ctx, clearSessions); err != nil {
		log.Err(err).Str("func", "*userRepository.Logout").Msg("error clearing sessions")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, db.classify(err))
	}
	return nil
}

// GetUser returns the account with id or [ErrNoUserWasFound].
func (r *userRepository) GetUser(ctx context.Context, id string) (models.User, error) {
	db, err := r.handle.DB(ctx)
	if err != nil {
		return models.User{}, err
	}

	user, err := scanUser(db.QueryRowContext(ctx, findUserByID, id))
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*userRepository.GetUser").Str("user_id", id).Msg("error getting user")
		return models.User{}, db.classify(err)
	}
	return user, nil
}

// AssignRegion records the operator's region. An unknown id yields
// [ErrNoUserWasFound].
func (r *userRepository) AssignRegion(ctx context.Context, id, region string) error {
	db, err := r.handle.DB(ctx)
	if err != nil {
		return err
	}

	var value sql.NullString
	if region != "" {
		value = sql.NullString{String: region, Valid: true}
	}

	res, err := db.ExecContext(ctx, assignRegion, value, id)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*userRepository.AssignRegion").Str("user_id", id).Msg("error assigning region")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, db.classify(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoUserWasFound
	}
	return nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var (
		user       models.User
		region     sql.NullString
		isLoggedIn sql.NullInt64
	)
	err := row.Scan(&user.ID, &user.Username, &user.Password, &user.FullName, &region, &isLoggedIn)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	if region.Valid {
		user.Region = &region.String
	}
	user.IsLoggedIn = isLoggedIn.Int64 == 1
	return user, nil
}
