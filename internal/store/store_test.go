package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/migrations"
	"github.com/MKhiriev/go-climate-keeper/models"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func newTestStorages(t *testing.T) *ClientStorages {
	t.Helper()
	s := NewClientStorages(filepath.Join(t.TempDir(), "climatechange.db"), logger.Nop(),
		migrations.WithLocation(time.UTC),
	)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func loginAs(t *testing.T, s *ClientStorages, username, password string) models.User {
	t.Helper()
	user, ok, err := s.Users.ValidateLogin(context.Background(), username, password)
	require.NoError(t, err)
	require.True(t, ok)
	return user
}

func sampleRecord(id, userID string, entry time.Time) models.ClimateRecord {
	return models.ClimateRecord{
		ID:         id,
		UserID:     userID,
		Type:       models.DailyTemperature,
		Date:       "2025-07-14 10:00:00",
		Reading:    models.RangeReading{Min: models.Float(24.5), Max: models.Float(33.1), Mean: models.Float(28.8)},
		DeviceCode: "DEV-01",
		Latitude:   models.Float(23.81),
		Longitude:  models.Float(90.41),
		SyncState:  models.SyncStatePending,
		EntryTime:  entry,
		StudySite:  "Gazipur",
	}
}

func ids(records []models.ClimateRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
