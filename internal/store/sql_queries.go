// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-climate-keeper/models"
)

const (
	clearSessions = `UPDATE users SET is_logged_in = 0 WHERE is_logged_in <> 0;`

	startSession = `UPDATE users SET is_logged_in = 1
		WHERE username = ? AND password = ?;`

	findLoggedInUser = `SELECT id, username, password, fullName, region, is_logged_in
		FROM users
		WHERE is_logged_in = 1
		LIMIT 1;`

	findUserByUsername = `SELECT id, username, password, fullName, region, is_logged_in
		FROM users
		WHERE username = ?;`

	findUserByID = `SELECT id, username, password, fullName, region, is_logged_in
		FROM users
		WHERE id = ?;`

	userExists = `SELECT EXISTS (SELECT 1 FROM users WHERE id = ?);`

	assignRegion = `UPDATE users SET region = ? WHERE id = ?;`

	seedUser = `INSERT OR IGNORE INTO users (id, username, password, fullName, is_logged_in)
		VALUES (?, ?, ?, ?, 0);`

	insertRecord = `INSERT INTO climate_records (
			id,
			userId,
			type,
			date,
			month,
			min,
			max,
			mean,
			total,
			device_code,
			latitude,
			longitude,
			sync_state,
			entry_time,
			study_site
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	// entry_time is left untouched and a Synced row is never demoted.
	updateRecord = `UPDATE climate_records SET
			userId = ?,
			type = ?,
			date = ?,
			month = ?,
			min = ?,
			max = ?,
			mean = ?,
			total = ?,
			device_code = ?,
			latitude = ?,
			longitude = ?,
			study_site = ?,
			sync_state = CASE WHEN sync_state = 1 THEN 1 ELSE ? END
		WHERE id = ?;`

	deleteRecord = `DELETE FROM climate_records WHERE id = ?;`

	markRecordSynced = `UPDATE climate_records SET sync_state = 1 WHERE id = ?;`

	recordExists = `SELECT EXISTS (SELECT 1 FROM climate_records WHERE id = ?);`

	upsertBackup = `INSERT INTO climate_backups (
			id,
			user_id,
			study_site,
			type,
			date,
			month,
			min,
			max,
			mean,
			total,
			device_code,
			latitude,
			longitude,
			entry_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			study_site = EXCLUDED.study_site,
			type = EXCLUDED.type,
			date = EXCLUDED.date,
			month = EXCLUDED.month,
			min = EXCLUDED.min,
			max = EXCLUDED.max,
			mean = EXCLUDED.mean,
			total = EXCLUDED.total,
			device_code = EXCLUDED.device_code,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			entry_time = EXCLUDED.entry_time,
			updated_at = NOW();`
)

// recordColumns is the projection scanned by [scanRecord]. rowid comes last
// and breaks entry_time ties.
var recordColumns = []string{
	"id",
	"userId",
	"type",
	"date",
	"month",
	"min",
	"max",
	"mean",
	"total",
	"device_code",
	"latitude",
	"longitude",
	"sync_state",
	"entry_time",
	"study_site",
	"rowid",
}

// recordCursor is the keyset position after the last row of a page.
type recordCursor struct {
	EntryTime string
	Seq       int64
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// buildSelectRecordsQuery builds the listing query for filter. Rows come
// newest first, ties broken by the most recent insertion. When after is set
// only rows strictly past that position are returned. limit <= 0 means no
// limit.
func buildSelectRecordsQuery(filter models.RecordFilter, after *recordCursor, limit int) (string, []any, error) {
	q := sq.Select(recordColumns...).
		From(models.ClimateRecord{}.TableName()).
		OrderBy("entry_time DESC", "rowid DESC")

	if filter.Type != "" {
		q = q.Where(sq.Eq{"type": filter.Type.String()})
	}
	if filter.StudySite != "" {
		q = q.Where(sq.Eq{"study_site": filter.StudySite})
	}
	if filter.Month != "" {
		q = q.Where(sq.Expr(`month LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(filter.Month)+"%"))
	}
	if filter.State != nil {
		if filter.State.Normalize() == models.SyncStateSynced {
			q = q.Where(sq.Eq{"sync_state": int(models.SyncStateSynced)})
		} else {
			q = q.Where(sq.NotEq{"sync_state": int(models.SyncStateSynced)})
		}
	}
	if after != nil {
		q = q.Where(sq.Or{
			sq.Lt{"entry_time": after.EntryTime},
			sq.And{
				sq.Eq{"entry_time": after.EntryTime},
				sq.Lt{"rowid": after.Seq},
			},
		})
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildSelectRecordByIDQuery builds the point lookup used by Get.
func buildSelectRecordByIDQuery(id string) (string, []any, error) {
	query, args, err := sq.Select(recordColumns...).
		From(models.ClimateRecord{}.TableName()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
