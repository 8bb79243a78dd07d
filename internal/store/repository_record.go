// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/models"
)

// DefaultPageSize is the number of rows fetched per page by
// [RecordRepository.Records] when the filter does not set one.
const DefaultPageSize = 100

// recordRepository is the SQLite-backed implementation of [RecordRepository].
// Records must arrive normalized: canonical date and month text, an
// identifier and an entry time. Each mutating call runs in one transaction.
type recordRepository struct {
	logger *logger.Logger
	handle *Handle
}

// NewRecordRepository constructs a [RecordRepository] on top of handle.
func NewRecordRepository(handle *Handle, logger *logger.Logger) RecordRepository {
	logger.Debug().Msg("creating climate record repository")
	return &recordRepository{
		handle: handle,
		logger: logger,
	}
}

// Insert stores a new record. The owning user must exist at insert time,
// otherwise [ErrReference] is returned and nothing is written. An identifier
// that is already stored yields [ErrRecordExists].
func (r *recordRepository) Insert(ctx context.Context, record models.ClimateRecord) error {
	log := logger.FromContext(ctx)

	if err := validateRecord(record); err != nil {
		return err
	}

	db, err := r.handle.DB(ctx)
	if err != nil {
		return err
	}

	err = db.inTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, userExists, record.UserID).Scan(&exists); err != nil {
			return fmt.Errorf("%w: checking user: %w", ErrExecutingQuery, db.classify(err))
		}
		if !exists {
			return fmt.Errorf("%w: %s", ErrReference, record.UserID)
		}

		_, err := tx.ExecContext(ctx, insertRecord,
			record.ID,
			record.UserID,
			record.Type.String(),
			nullText(record.Date),
			nullText(record.Month),
			record.Min(),
			record.Max(),
			record.Mean(),
			record.Total(),
			record.DeviceCode,
			record.Latitude,
			record.Longitude,
			int(models.SyncStatePending),
			record.EntryTimeText(),
			record.StudySite,
		)
		if isDuplicateID(err) {
			return fmt.Errorf("%w: %s", ErrRecordExists, record.ID)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, db.classify(err))
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.Insert").Str("record_id", record.ID).Msg("error inserting climate record")
		return err
	}

	return nil
}

// Update overwrites every mutable column of the stored record with the same
// identifier. entry_time is never changed and a Synced record stays Synced
// whatever state is requested.
func (r *recordRepository) Update(ctx context.Context, record models.ClimateRecord, state models.SyncState) error {
	log := logger.FromContext(ctx)

	if err := validateRecord(record); err != nil {
		return err
	}

	db, err := r.handle.DB(ctx)
	if err != nil {
		return err
	}

	err = db.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, updateRecord,
			record.UserID,
			record.Type.String(),
			nullText(record.Date),
			nullText(record.Month),
			record.Min(),
			record.Max(),
			record.Mean(),
			record.Total(),
			record.DeviceCode,
			record.Latitude,
			record.Longitude,
			record.StudySite,
			int(state.Normalize()),
			record.ID,
		)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, db.classify(err))
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %s", ErrRecordNotFound, record.ID)
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.Update").Str("record_id", record.ID).Msg("error updating climate record")
		return err
	}

	return nil
}

// Delete removes the record with id. Deleting an absent record is a no-op.
func (r *recordRepository) Delete(ctx context.Context, id string) error {
	db, err := r.handle.DB(ctx)
	if err != nil {
		return err
	}

	if _, err = db.ExecContext(ctx, deleteRecord, id); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*recordRepository.Delete").Str("record_id", id).Msg("error deleting climate record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, db.classify(err))
	}
	return nil
}

// Get returns the record with id or [ErrRecordNotFound].
func (r *recordRepository) Get(ctx context.Context, id string) (models.ClimateRecord, error) {
	db, err := r.handle.DB(ctx)
	if err != nil {
		return models.ClimateRecord{}, err
	}

	query, args, err := buildSelectRecordByIDQuery(id)
	if err != nil {
		return models.ClimateRecord{}, err
	}

	rec, _, err := scanRecord(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.ClimateRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*recordRepository.Get").Str("record_id", id).Msg("error reading climate record")
		return models.ClimateRecord{}, db.classify(err)
	}
	return rec, nil
}

// ListAll returns every record, newest first.
func (r *recordRepository) ListAll(ctx context.Context) ([]models.ClimateRecord, error) {
	return r.List(ctx, models.RecordFilter{})
}

// ListPending returns every record not yet confirmed by the remote endpoint,
// newest first. Legacy draft codes count as pending.
func (r *recordRepository) ListPending(ctx context.Context) ([]models.ClimateRecord, error) {
	pending := models.SyncStatePending
	return r.List(ctx, models.RecordFilter{State: &pending})
}

// List returns a snapshot of the records matching filter, newest first.
func (r *recordRepository) List(ctx context.Context, filter models.RecordFilter) ([]models.ClimateRecord, error) {
	records, _, err := r.selectRecords(ctx, filter, nil, 0)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*recordRepository.List").Msg("error listing climate records")
		return nil, err
	}
	return records, nil
}

// Records returns a lazy sequence over the records matching filter, newest
// first. Rows are fetched a page at a time by keyset, so no cursor is held
// open while the caller consumes them. Every range over the sequence starts
// a fresh read.
func (r *recordRepository) Records(ctx context.Context, filter models.RecordFilter) iter.Seq2[models.ClimateRecord, error] {
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return func(yield func(models.ClimateRecord, error) bool) {
		var after *recordCursor
		for {
			page, last, err := r.selectRecords(ctx, filter, after, pageSize)
			if err != nil {
				yield(models.ClimateRecord{}, err)
				return
			}
			for _, rec := range page {
				if !yield(rec, nil) {
					return
				}
			}
			if len(page) < pageSize {
				return
			}
			after = last
		}
	}
}

// MarkSynced moves the record with id to Synced. It is the only transition
// out of Pending and it is never reversed.
func (r *recordRepository) MarkSynced(ctx context.Context, id string) error {
	db, err := r.handle.DB(ctx)
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, markRecordSynced, id)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*recordRepository.MarkSynced").Str("record_id", id).Msg("error marking climate record synced")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, db.classify(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return nil
}

// Exists reports whether a record with id is stored.
func (r *recordRepository) Exists(ctx context.Context, id string) (bool, error) {
	db, err := r.handle.DB(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	if err = db.QueryRowContext(ctx, recordExists, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, db.classify(err))
	}
	return exists, nil
}

// selectRecords reads one page and returns the keyset position of its last
// row.
func (r *recordRepository) selectRecords(ctx context.Context, filter models.RecordFilter, after *recordCursor, limit int) ([]models.ClimateRecord, *recordCursor, error) {
	db, err := r.handle.DB(ctx)
	if err != nil {
		return nil, nil, err
	}

	query, args, err := buildSelectRecordsQuery(filter, after, limit)
	if err != nil {
		return nil, nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrExecutingQuery, db.classify(err))
	}
	defer rows.Close()

	var (
		records []models.ClimateRecord
		last    *recordCursor
	)
	for rows.Next() {
		rec, cursor, err := scanRecord(rows)
		if err != nil {
			return nil, nil, err
		}
		records = append(records, rec)
		last = &cursor
	}
	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrScanningRows, db.classify(err))
	}

	return records, last, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one row of [recordColumns]. sql.ErrNoRows is returned
// unwrapped.
func scanRecord(row rowScanner) (models.ClimateRecord, recordCursor, error) {
	var (
		rec                   models.ClimateRecord
		recordType            string
		date, month           sql.NullString
		deviceCode, studySite sql.NullString
		minV, maxV, meanV     sql.NullFloat64
		total, lat, lon       sql.NullFloat64
		state                 sql.NullInt64
		entryTime             string
	)
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&recordType,
		&date,
		&month,
		&minV,
		&maxV,
		&meanV,
		&total,
		&deviceCode,
		&lat,
		&lon,
		&state,
		&entryTime,
		&studySite,
		&rec.Seq,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ClimateRecord{}, recordCursor{}, err
	}
	if err != nil {
		return models.ClimateRecord{}, recordCursor{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	rec.Type = models.RecordType(recordType)
	rec.Date = date.String
	rec.Month = month.String
	rec.DeviceCode = deviceCode.String
	rec.StudySite = studySite.String
	rec.Latitude = floatPtr(lat)
	rec.Longitude = floatPtr(lon)
	rec.SyncState = models.SyncState(state.Int64).Normalize()
	rec.Reading = readingFor(rec.Type, floatPtr(minV), floatPtr(maxV), floatPtr(meanV), floatPtr(total))
	if t, err := time.Parse(time.RFC3339Nano, entryTime); err == nil {
		rec.EntryTime = t.UTC()
	}

	return rec, recordCursor{EntryTime: entryTime, Seq: rec.Seq}, nil
}

// readingFor picks the reading family of t, unless that family is empty and
// the other one carries values.
func readingFor(t models.RecordType, minV, maxV, meanV, total *float64) models.Reading {
	rangeReading := models.RangeReading{Min: minV, Max: maxV, Mean: meanV}
	rainfall := models.RainfallReading{Total: total}
	hasRange := minV != nil || maxV != nil || meanV != nil

	if t.IsRainfall() {
		if total == nil && hasRange {
			return rangeReading
		}
		return rainfall
	}
	if !hasRange && total != nil {
		return rainfall
	}
	return rangeReading
}

func validateRecord(record models.ClimateRecord) error {
	switch {
	case strings.TrimSpace(record.ID) == "":
		return fmt.Errorf("%w: record id is required", ErrValidation)
	case strings.TrimSpace(record.UserID) == "":
		return fmt.Errorf("%w: userId is required", ErrValidation)
	case !record.Type.Valid():
		return fmt.Errorf("%w: unknown record type %q", ErrValidation, record.Type)
	}
	return nil
}

func isDuplicateID(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func nullText(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
