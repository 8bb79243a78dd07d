// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/MKhiriev/go-climate-keeper/internal/idgen"
	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/internal/mock"
	"github.com/MKhiriev/go-climate-keeper/internal/store"
	"github.com/MKhiriev/go-climate-keeper/migrations"
	"github.com/MKhiriev/go-climate-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2025, 7, 14, 9, 30, 15, 0, time.UTC)

// ── helpers ───────────────────────────────────────────────────────────────────

func newTestStorages(t *testing.T) *store.ClientStorages {
	t.Helper()
	s := store.NewClientStorages(filepath.Join(t.TempDir(), "climatechange.db"), logger.Nop(),
		migrations.WithLocation(time.UTC),
	)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestRecordSvc(t *testing.T, s *store.ClientStorages, allocator idgen.Allocator) RecordService {
	t.Helper()
	if allocator == nil {
		allocator = idgen.NewUUIDAllocator()
	}
	return NewRecordService(s.Records, s.Users, allocator, s.Handle, logger.Nop(),
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
	)
}

func loginAdmin(t *testing.T, s *store.ClientStorages) models.User {
	t.Helper()
	user, ok, err := s.Users.ValidateLogin(context.Background(), "admin", "1234")
	require.NoError(t, err)
	require.True(t, ok)
	return user
}

func temperatureDraft(userID string) models.RecordDraft {
	return models.RecordDraft{
		UserID:     userID,
		Type:       models.DailyTemperature,
		Date:       "2025-07-13",
		Reading:    models.RangeReading{Min: models.Float(24.5), Max: models.Float(33.1), Mean: models.Float(28.8)},
		DeviceCode: "DEV-01",
		Latitude:   models.Float(23.81),
		Longitude:  models.Float(90.41),
		StudySite:  "Gazipur",
	}
}

// ── normalization ─────────────────────────────────────────────────────────────

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "empty stays empty", raw: "  ", want: ""},
		{name: "bare day gets current time", raw: "2025-07-01", want: "2025-07-01 09:30:15"},
		{name: "calendar text kept", raw: "2025-07-01 06:00:00", want: "2025-07-01 06:00:00"},
		{name: "rfc3339 converted", raw: "2025-07-01T06:00:00+06:00", want: "2025-07-01 00:00:00"},
		{name: "garbage", raw: "yesterday", wantErr: store.ErrFormat},
		{name: "impossible day", raw: "2025-02-30", wantErr: store.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeDate(tt.raw, fixedNow, time.UTC)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeMonth(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "empty stays empty", raw: "", want: ""},
		{name: "first of month at current time", raw: "2025-07", want: "2025-07-01 09:30:15"},
		{name: "december", raw: "2024-12", want: "2024-12-01 09:30:15"},
		{name: "month thirteen", raw: "2025-13", wantErr: store.ErrFormat},
		{name: "month zero", raw: "2025-00", wantErr: store.ErrFormat},
		{name: "full date is not a month", raw: "2025-07-01", wantErr: store.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeMonth(tt.raw, fixedNow, time.UTC)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ── Insert ────────────────────────────────────────────────────────────────────

func TestRecordService_Insert_StoresPendingRecord(t *testing.T) {
	s := newTestStorages(t)
	svc := newTestRecordSvc(t, s, nil)
	ctx := context.Background()
	user := loginAdmin(t, s)

	id, err := svc.Insert(ctx, temperatureDraft(user.ID))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatePending, got.SyncState)
	assert.Equal(t, "2025-07-13 09:30:15", got.Date)
	assert.Empty(t, got.Month)
	assert.True(t, fixedNow.Equal(got.EntryTime))
	assert.Equal(t, 33.1, *got.Max())
}

func TestRecordService_Insert_Monthly(t *testing.T) {
	s := newTestStorages(t)
	svc := newTestRecordSvc(t, s, nil)
	ctx := context.Background()
	user := loginAdmin(t, s)

	id, err := svc.Insert(ctx, models.RecordDraft{
		ID:      "m-1",
		UserID:  user.ID,
		Type:    models.MonthlyRainfall,
		Month:   "2025-07",
		Reading: models.RainfallReading{Total: models.Float(412.7)},
	})
	require.NoError(t, err)
	assert.Equal(t, "m-1", id)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2025-07-01 09:30:15", got.Month)
	assert.Equal(t, 412.7, *got.Total())
}

func TestRecordService_Insert_Errors(t *testing.T) {
	s := newTestStorages(t)
	svc := newTestRecordSvc(t, s, nil)
	ctx := context.Background()
	user := loginAdmin(t, s)

	noUser := temperatureDraft("")
	_, err := svc.Insert(ctx, noUser)
	assert.ErrorIs(t, err, store.ErrValidation)

	unknown := temperatureDraft("ghost")
	_, err = svc.Insert(ctx, unknown)
	assert.ErrorIs(t, err, store.ErrReference)

	badMonth := temperatureDraft(user.ID)
	badMonth.Type = models.MonthlyTemperature
	badMonth.Date = ""
	badMonth.Month = "2025-13"
	_, err = svc.Insert(ctx, badMonth)
	assert.ErrorIs(t, err, store.ErrFormat)

	badLat := temperatureDraft(user.ID)
	badLat.Latitude = models.Float(123)
	_, err = svc.Insert(ctx, badLat)
	assert.ErrorIs(t, err, store.ErrValidation)

	list, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "failed inserts must not persist anything")
}

func TestRecordService_Insert_DuplicateID(t *testing.T) {
	s := newTestStorages(t)
	svc := newTestRecordSvc(t, s, nil)
	ctx := context.Background()
	user := loginAdmin(t, s)

	draft := temperatureDraft(user.ID)
	draft.ID = "dup"
	_, err := svc.Insert(ctx, draft)
	require.NoError(t, err)

	_, err = svc.Insert(ctx, draft)
	assert.ErrorIs(t, err, store.ErrRecordExists)
}

func TestRecordService_Insert_RegionPrefixedIDs(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()
	user := loginAdmin(t, s)
	require.NoError(t, s.Users.AssignRegion(ctx, user.ID, "Dhaka"))

	allocator := idgen.NewRegionAllocator(map[string]int{"dhaka": 30}, 3, s.Records,
		idgen.WithSuffixSource(func() int { return 42 }),
	)
	svc := newTestRecordSvc(t, s, allocator)

	id, err := svc.Insert(ctx, temperatureDraft(user.ID))
	require.NoError(t, err)
	assert.Equal(t, "30"+user.ID+"000042", id)

	// the only suffix the source yields is now taken
	_, err = svc.Insert(ctx, temperatureDraft(user.ID))
	assert.ErrorIs(t, err, idgen.ErrAllocationExhausted)
}

func TestRecordService_Insert_AllocatorFailure(t *testing.T) {
	s := newTestStorages(t)
	ctrl := gomock.NewController(t)
	allocator := mock.NewMockAllocator(ctrl)
	svc := newTestRecordSvc(t, s, allocator)
	ctx := context.Background()
	user := loginAdmin(t, s)

	allocator.EXPECT().NewRecordID(gomock.Any(), user.ID, "").Return("", idgen.ErrUnknownRegion)

	_, err := svc.Insert(ctx, temperatureDraft(user.ID))
	assert.ErrorIs(t, err, idgen.ErrAllocation)
}

// ── Update ────────────────────────────────────────────────────────────────────

func TestRecordService_Update_NeverDemotesSynced(t *testing.T) {
	s := newTestStorages(t)
	svc := newTestRecordSvc(t, s, nil)
	ctx := context.Background()
	user := loginAdmin(t, s)

	id, err := svc.Insert(ctx, temperatureDraft(user.ID))
	require.NoError(t, err)
	require.NoError(t, s.Records.MarkSynced(ctx, id))

	stored, err := svc.Get(ctx, id)
	require.NoError(t, err)

	draft := stored.Draft()
	draft.StudySite = "Rajshahi"
	require.NoError(t, svc.Update(ctx, draft, nil))

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Rajshahi", got.StudySite)
	assert.Equal(t, models.SyncStateSynced, got.SyncState)
	assert.True(t, stored.EntryTime.Equal(got.EntryTime), "entry_time must not change")
}

func TestRecordService_Update_ExplicitState(t *testing.T) {
	s := newTestStorages(t)
	svc := newTestRecordSvc(t, s, nil)
	ctx := context.Background()
	user := loginAdmin(t, s)

	id, err := svc.Insert(ctx, temperatureDraft(user.ID))
	require.NoError(t, err)

	stored, err := svc.Get(ctx, id)
	require.NoError(t, err)

	synced := models.SyncStateSynced
	require.NoError(t, svc.Update(ctx, stored.Draft(), &synced))

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRecordService_Update_Errors(t *testing.T) {
	s := newTestStorages(t)
	svc := newTestRecordSvc(t, s, nil)
	ctx := context.Background()
	user := loginAdmin(t, s)

	draft := temperatureDraft(user.ID)
	err := svc.Update(ctx, draft, nil)
	assert.ErrorIs(t, err, store.ErrValidation, "update needs an id")

	draft.ID = "missing"
	err = svc.Update(ctx, draft, nil)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

// ── Delete / listings ─────────────────────────────────────────────────────────

func TestRecordService_DeleteAndFilters(t *testing.T) {
	s := newTestStorages(t)
	svc := newTestRecordSvc(t, s, nil)
	ctx := context.Background()
	user := loginAdmin(t, s)

	tempID, err := svc.Insert(ctx, temperatureDraft(user.ID))
	require.NoError(t, err)

	rain := temperatureDraft(user.ID)
	rain.Type = models.DailyRainfall
	rain.Reading = models.RainfallReading{Total: models.Float(12)}
	rainID, err := svc.Insert(ctx, rain)
	require.NoError(t, err)

	onlyRain, err := svc.List(ctx, models.RecordFilter{Type: models.DailyRainfall})
	require.NoError(t, err)
	require.Len(t, onlyRain, 1)
	assert.Equal(t, rainID, onlyRain[0].ID)

	var seen []string
	for rec, err := range svc.Records(ctx, models.RecordFilter{PageSize: 1}) {
		require.NoError(t, err)
		seen = append(seen, rec.ID)
	}
	assert.ElementsMatch(t, []string{tempID, rainID}, seen)

	require.NoError(t, svc.Delete(ctx, tempID))
	require.NoError(t, svc.Delete(ctx, tempID), "deleting twice is a no-op")

	_, err = svc.Get(ctx, tempID)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestRecordService_ExportPath(t *testing.T) {
	s := newTestStorages(t)
	svc := newTestRecordSvc(t, s, nil)

	path, err := svc.ExportPath()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, "climatechange.db", filepath.Base(path))
}
