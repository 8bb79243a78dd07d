package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-climate-keeper/internal/idgen"
	"github.com/MKhiriev/go-climate-keeper/models"
	"github.com/mattn/go-sqlite3"
)

const (
	createUsersV3 = `
		CREATE TABLE users_v3 (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			fullName TEXT NOT NULL,
			region TEXT NULL,
			is_logged_in INTEGER DEFAULT 0
		)`

	createRecordsV3 = `
		CREATE TABLE climate_records_v3 (
			id TEXT PRIMARY KEY,
			userId TEXT NOT NULL,
			type TEXT,
			date TEXT NULL,
			month TEXT NULL,
			min REAL,
			max REAL,
			mean REAL,
			total REAL,
			device_code TEXT,
			latitude REAL,
			longitude REAL,
			sync_state INTEGER NOT NULL DEFAULT 2,
			entry_time TEXT NOT NULL,
			study_site TEXT
		)`

	insertUserV3 = `
		INSERT INTO users_v3 (id, username, password, fullName, region, is_logged_in)
		VALUES (?, ?, ?, ?, ?, ?)`

	insertRecordV3 = `
		INSERT INTO climate_records_v3
			(id, userId, type, date, month, min, max, mean, total, device_code,
			 latitude, longitude, sync_state, entry_time, study_site)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

// legacyRow is a row read generically with SELECT *, keyed by column name.
type legacyRow map[string]any

type userV3 struct {
	ID         string
	Username   string
	Password   string
	FullName   string
	Region     sql.NullString
	IsLoggedIn int
}

type recordV3 struct {
	ID         string
	UserID     string
	Type       string
	Date       sql.NullString
	Month      sql.NullString
	Min        sql.NullFloat64
	Max        sql.NullFloat64
	Mean       sql.NullFloat64
	Total      sql.NullFloat64
	DeviceCode string
	Latitude   sql.NullFloat64
	Longitude  sql.NullFloat64
	SyncState  models.SyncState
	EntryTime  string
	StudySite  string
}

// addMissingColumns is version 2: columns introduced by later app releases
// are added to devices that still carry the first table layout.
func (m *clientMigrator) addMissingColumns(ctx context.Context, tx *sql.Tx) error {
	additions := []struct {
		table, column, ddl string
	}{
		{"climate_records", "study_site", "ALTER TABLE climate_records ADD COLUMN study_site TEXT"},
		{"users", "is_logged_in", "ALTER TABLE users ADD COLUMN is_logged_in INTEGER DEFAULT 0"},
	}

	for _, a := range additions {
		cols, err := tableColumns(ctx, tx, a.table)
		if err != nil {
			return err
		}
		if _, ok := cols[a.column]; ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, a.ddl); err != nil {
			return fmt.Errorf("adding column %s.%s: %w", a.table, a.column, err)
		}
		m.log.Info().Str("func", "addMissingColumns").
			Str("table", a.table).Str("column", a.column).
			Msg("added missing column")
	}
	return nil
}

// convertToStringIdentifiers is version 3: users and climate records are
// rebuilt with string identifiers and the sync_state column. Every legacy
// row is carried over, repaired where needed.
func (m *clientMigrator) convertToStringIdentifiers(ctx context.Context, tx *sql.Tx) error {
	recordCols, err := tableColumns(ctx, tx, "climate_records")
	if err != nil {
		return err
	}
	if _, legacy := recordCols["is_live"]; !legacy {
		if _, current := recordCols["sync_state"]; current {
			m.log.Info().Str("func", "convertToStringIdentifiers").Msg("tables already use string identifiers")
			return nil
		}
	}

	for _, ddl := range []string{createUsersV3, createRecordsV3} {
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating v3 table: %w", err)
		}
	}

	userIDs, err := m.copyUsers(ctx, tx)
	if err != nil {
		return err
	}
	if err := m.copyRecords(ctx, tx, userIDs); err != nil {
		return err
	}

	for _, stmt := range []string{
		"DROP TABLE climate_records",
		"DROP TABLE users",
		"ALTER TABLE users_v3 RENAME TO users",
		"ALTER TABLE climate_records_v3 RENAME TO climate_records",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("swapping v3 tables (%s): %w", stmt, err)
		}
	}
	return nil
}

// copyUsers converts every legacy user and returns the mapping from legacy
// identifier text to the identifier actually stored. At most one user keeps
// the logged-in flag: the first stored one, in legacy row order.
func (m *clientMigrator) copyUsers(ctx context.Context, tx *sql.Tx) (map[string]string, error) {
	rows, err := selectRows(ctx, tx, "SELECT rowid AS legacy_rowid, * FROM users ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("reading legacy users: %w", err)
	}

	ids := make(map[string]string, len(rows))
	var copied, skipped int
	var sessionKept bool
	for _, row := range rows {
		legacyID, _ := asText(row["id"])
		u, repairs := convertUserRow(row)
		if u.IsLoggedIn == 1 && sessionKept {
			u.IsLoggedIn = 0
			repairs = append(repairs, &MigrationError{
				Table: "users", RowID: u.ID, Column: "is_logged_in", Raw: row["is_logged_in"],
				Reason: "duplicate session flag cleared",
			})
		}
		m.logRepairs(repairs)

		err := insertWithRetry(&u.ID, func(id string) error {
			_, err := tx.ExecContext(ctx, insertUserV3, id, u.Username, u.Password, u.FullName, u.Region, u.IsLoggedIn)
			return err
		})
		if err != nil {
			skipped++
			m.logRepairs([]*MigrationError{{Table: "users", RowID: legacyID, Reason: "skipped: " + err.Error()}})
			continue
		}
		copied++
		if u.IsLoggedIn == 1 {
			sessionKept = true
		}
		if _, seen := ids[legacyID]; legacyID != "" && !seen {
			ids[legacyID] = u.ID
		}
	}

	m.log.Info().Str("func", "copyUsers").Int("copied", copied).Int("skipped", skipped).Msg("converted legacy users")
	return ids, nil
}

func (m *clientMigrator) copyRecords(ctx context.Context, tx *sql.Tx, userIDs map[string]string) error {
	rows, err := selectRows(ctx, tx, "SELECT rowid AS legacy_rowid, * FROM climate_records ORDER BY rowid")
	if err != nil {
		return fmt.Errorf("reading legacy climate records: %w", err)
	}

	var copied, skipped int
	for _, row := range rows {
		r, repairs := convertRecordRow(row, m.now(), m.loc)
		if mapped, ok := userIDs[r.UserID]; ok {
			r.UserID = mapped
		}
		m.logRepairs(repairs)

		err := insertWithRetry(&r.ID, func(id string) error {
			_, err := tx.ExecContext(ctx, insertRecordV3,
				id, r.UserID, r.Type, r.Date, r.Month, r.Min, r.Max, r.Mean, r.Total,
				r.DeviceCode, r.Latitude, r.Longitude, int(r.SyncState), r.EntryTime, r.StudySite)
			return err
		})
		if err != nil {
			skipped++
			m.logRepairs([]*MigrationError{{Table: "climate_records", RowID: r.ID, Reason: "skipped: " + err.Error()}})
			continue
		}
		copied++
	}

	m.log.Info().Str("func", "copyRecords").Int("copied", copied).Int("skipped", skipped).Msg("converted legacy climate records")
	return nil
}

func (m *clientMigrator) logRepairs(repairs []*MigrationError) {
	for _, r := range repairs {
		m.log.Warn().Err(r).
			Str("func", "convertToStringIdentifiers").
			Str("table", r.Table).
			Str("row_id", r.RowID).
			Str("column", r.Column).
			Msg("legacy row repaired")
	}
}

// insertWithRetry runs insert with *id. On an identifier collision it draws a
// fresh identifier once and retries; *id is updated to the stored value.
func insertWithRetry(id *string, insert func(id string) error) error {
	err := insert(*id)
	if err == nil || !isIDCollision(err) {
		return err
	}
	fresh := idgen.NewUUID()
	if err := insert(fresh); err != nil {
		return err
	}
	*id = fresh
	return nil
}

func isIDCollision(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") && strings.HasSuffix(err.Error(), ".id")
}

// convertUserRow maps a legacy user row to the v3 layout.
func convertUserRow(row legacyRow) (userV3, []*MigrationError) {
	var repairs []*MigrationError
	id, ok := asText(row["id"])
	if !ok || id == "" {
		id = idgen.NewUUID()
		repairs = append(repairs, &MigrationError{Table: "users", RowID: id, Column: "id", Raw: row["id"], Reason: "missing identifier replaced"})
	}

	u := userV3{ID: id}
	u.Username, _ = asText(row["username"])
	u.Password, _ = asText(row["password"])
	u.FullName, _ = asText(row["fullName"])
	if region, ok := asText(row["region"]); ok && region != "" {
		u.Region = sql.NullString{String: region, Valid: true}
	}
	if v, ok := asInt(row["is_logged_in"]); ok && v == 1 {
		u.IsLoggedIn = 1
	}
	return u, repairs
}

// convertRecordRow maps a legacy climate record row to the v3 layout.
func convertRecordRow(row legacyRow, now time.Time, loc *time.Location) (recordV3, []*MigrationError) {
	var repairs []*MigrationError
	repair := func(rowID, column string, raw any, reason string) {
		repairs = append(repairs, &MigrationError{Table: "climate_records", RowID: rowID, Column: column, Raw: raw, Reason: reason})
	}

	id, ok := asText(row["id"])
	if !ok || id == "" {
		id = idgen.NewUUID()
		repair(id, "id", row["id"], "missing identifier replaced")
	}

	r := recordV3{ID: id}
	r.UserID, _ = asText(row["userId"])
	if r.UserID == "" {
		repair(id, "userId", row["userId"], "missing owner")
	}
	r.Type, _ = asText(row["type"])
	r.DeviceCode, _ = asText(row["device_code"])
	r.StudySite, _ = asText(row["study_site"])

	for _, c := range []struct {
		name string
		dst  *sql.NullString
	}{{"date", &r.Date}, {"month", &r.Month}} {
		raw, ok := asText(row[c.name])
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		canonical, parsed := canonicalCalendar(raw, loc)
		if !parsed {
			repair(id, c.name, raw, "unrecognised timestamp kept as is")
			canonical = raw
		}
		*c.dst = sql.NullString{String: canonical, Valid: true}
	}

	for _, c := range []struct {
		name string
		dst  *sql.NullFloat64
	}{
		{"min", &r.Min}, {"max", &r.Max}, {"mean", &r.Mean}, {"total", &r.Total},
		{"latitude", &r.Latitude}, {"longitude", &r.Longitude},
	} {
		v, present, numeric := asFloat(row[c.name])
		if present && !numeric {
			repair(id, c.name, row[c.name], "non-numeric value cleared")
			continue
		}
		if numeric {
			*c.dst = sql.NullFloat64{Float64: v, Valid: true}
		}
	}

	r.SyncState = models.SyncStatePending
	if v, ok := asInt(row["is_live"]); ok && models.SyncState(v) == models.SyncStateSynced {
		r.SyncState = models.SyncStateSynced
	}

	raw, _ := asText(row["entry_time"])
	if t, ok := parseEntryTime(raw, loc); ok {
		r.EntryTime = t.UTC().Format(models.EntryTimeLayout)
	} else {
		repair(id, "entry_time", row["entry_time"], "missing or unrecognised entry time set to migration time")
		r.EntryTime = now.UTC().Format(models.EntryTimeLayout)
	}

	return r, repairs
}

var legacyCalendarLayouts = []string{
	models.CalendarLayout,
	"2006-01-02T15:04:05",
	models.DayLayout,
	models.MonthLayout,
}

func canonicalCalendar(raw string, loc *time.Location) (string, bool) {
	s := strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc).Format(models.CalendarLayout), true
	}
	for _, layout := range legacyCalendarLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.Format(models.CalendarLayout), true
		}
	}
	return "", false
}

func parseEntryTime(raw string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(models.CalendarLayout, s, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func tableColumns(ctx context.Context, tx *sql.Tx, table string) (map[string]string, error) {
	rows, err := selectRows(ctx, tx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	cols := make(map[string]string, len(rows))
	for _, row := range rows {
		name, _ := asText(row["name"])
		typ, _ := asText(row["type"])
		cols[name] = strings.ToUpper(typ)
	}
	return cols, nil
}

func selectRows(ctx context.Context, tx *sql.Tx, query string) ([]legacyRow, error) {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []legacyRow
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(legacyRow, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func asText(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case []byte:
		return string(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case time.Time:
		return t.Format(time.RFC3339Nano), true
	default:
		return fmt.Sprint(t), true
	}
}

func asInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case float64:
		return int64(t), true
	case string, []byte:
		s, _ := asText(t)
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// asFloat reports the numeric value of v, whether a value was present at
// all, and whether it was numeric. Blank text counts as absent.
func asFloat(v any) (value float64, present, numeric bool) {
	switch t := v.(type) {
	case nil:
		return 0, false, false
	case float64:
		return t, true, true
	case int64:
		return float64(t), true, true
	case string, []byte:
		s, _ := asText(t)
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, true, false
		}
		return f, true, true
	default:
		return 0, true, false
	}
}
