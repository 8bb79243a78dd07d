// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MKhiriev/go-climate-keeper/internal/adapter"
	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/internal/mock"
	"github.com/MKhiriev/go-climate-keeper/internal/store"
	"github.com/MKhiriev/go-climate-keeper/internal/utils"
	"github.com/MKhiriev/go-climate-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestSyncSvc builds a syncService over gomock repositories.
func newTestSyncSvc(t *testing.T) (SyncService, *mock.MockRecordRepository, *mock.MockBackupAdapter) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockRepo := mock.NewMockRecordRepository(ctrl)
	mockAdapter := mock.NewMockBackupAdapter(ctrl)

	return NewSyncService(mockRepo, mockAdapter, time.Second, logger.Nop()), mockRepo, mockAdapter
}

func pendingRecords(n int) []models.ClimateRecord {
	base := time.Date(2025, 7, 14, 8, 0, 0, 0, time.UTC)
	out := make([]models.ClimateRecord, 0, n)
	for i := range n {
		out = append(out, models.ClimateRecord{
			ID:        fmt.Sprintf("r-%d", i),
			UserID:    "u-1",
			Type:      models.DailyRainfall,
			Date:      "2025-07-14 10:00:00",
			Reading:   models.RainfallReading{Total: models.Float(float64(i))},
			SyncState: models.SyncStatePending,
			EntryTime: base.Add(-time.Duration(i) * time.Minute),
			StudySite: "Sylhet",
		})
	}
	return out
}

// ── SyncPending ─────────────────────────────────────────────────────────────

func TestSyncPending_NothingToSync(t *testing.T) {
	svc, mockRepo, _ := newTestSyncSvc(t)
	ctx := context.Background()

	mockRepo.EXPECT().ListPending(ctx).Return(nil, nil)

	report, err := svc.SyncPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SyncOutcomeNothingToSync, report.Outcome)
	assert.Zero(t, report.Total)
}

func TestSyncPending_AllAccepted(t *testing.T) {
	svc, mockRepo, mockAdapter := newTestSyncSvc(t)
	ctx := context.Background()
	records := pendingRecords(2)

	mockRepo.EXPECT().ListPending(ctx).Return(records, nil)
	gomock.InOrder(
		mockAdapter.EXPECT().Submit(gomock.Any(), models.NewBackupPayload(records[0])).Return("1", nil),
		mockRepo.EXPECT().MarkSynced(ctx, "r-0").Return(nil),
		mockAdapter.EXPECT().Submit(gomock.Any(), models.NewBackupPayload(records[1])).Return("OK\n", nil),
		mockRepo.EXPECT().MarkSynced(ctx, "r-1").Return(nil),
	)

	report, err := svc.SyncPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SyncOutcomeCompleted, report.Outcome)
	assert.Equal(t, 2, report.Synced)
	assert.Empty(t, report.Failures)
}

func TestSyncPending_PartialFailureIsIsolated(t *testing.T) {
	svc, mockRepo, mockAdapter := newTestSyncSvc(t)
	ctx := context.Background()
	records := pendingRecords(4)
	dbErr := errors.New("disk I/O error")

	mockRepo.EXPECT().ListPending(ctx).Return(records, nil)
	gomock.InOrder(
		mockAdapter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("1", nil),
		mockRepo.EXPECT().MarkSynced(ctx, "r-0").Return(nil),
		mockAdapter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(" 2\n", nil),
		mockAdapter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("", fmt.Errorf("%w: http 500", adapter.ErrUnexpectedStatus)),
		mockAdapter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("1", nil),
		mockRepo.EXPECT().MarkSynced(ctx, "r-3").Return(dbErr),
	)

	report, err := svc.SyncPending(ctx)
	require.NoError(t, err)

	assert.Equal(t, models.SyncOutcomePartial, report.Outcome)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 1, report.Synced)
	assert.Equal(t, 1, report.Rejected)
	assert.Equal(t, 1, report.TransportFailed)
	assert.Equal(t, 1, report.StoreFailed)
	assert.Equal(t, 3, report.Failed())

	require.Len(t, report.Failures, 3)
	assert.Equal(t, "r-1", report.Failures[0].RecordID)
	assert.ErrorIs(t, report.Failures[0].Err, ErrRejected)
	assert.Equal(t, "r-2", report.Failures[1].RecordID)
	assert.ErrorIs(t, report.Failures[1].Err, adapter.ErrTransport)
	assert.Equal(t, "r-3", report.Failures[2].RecordID)
	assert.ErrorIs(t, report.Failures[2].Err, dbErr)
}

func TestSyncPending_AllRejected(t *testing.T) {
	svc, mockRepo, mockAdapter := newTestSyncSvc(t)
	ctx := context.Background()

	mockRepo.EXPECT().ListPending(ctx).Return(pendingRecords(3), nil)
	mockAdapter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("2", nil).Times(3)
	mockRepo.EXPECT().MarkSynced(gomock.Any(), gomock.Any()).Times(0)

	report, err := svc.SyncPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SyncOutcomeFailed, report.Outcome)
	assert.Equal(t, 3, report.Rejected)
}

func TestSyncPending_ListError(t *testing.T) {
	svc, mockRepo, _ := newTestSyncSvc(t)
	ctx := context.Background()

	mockRepo.EXPECT().ListPending(ctx).Return(nil, store.ErrStorageUnavailable)

	_, err := svc.SyncPending(ctx)
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
}

func TestSyncPending_BoundsEachRequest(t *testing.T) {
	svc, mockRepo, mockAdapter := newTestSyncSvc(t)
	ctx := context.Background()

	mockRepo.EXPECT().ListPending(ctx).Return(pendingRecords(1), nil)
	mockAdapter.EXPECT().Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(reqCtx context.Context, _ models.BackupPayload) (string, error) {
			deadline, ok := reqCtx.Deadline()
			assert.True(t, ok, "submission must carry a deadline")
			assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
			return "1", nil
		})
	mockRepo.EXPECT().MarkSynced(ctx, "r-0").Return(nil)

	_, err := svc.SyncPending(ctx)
	require.NoError(t, err)
}

func TestSyncPending_SharesTraceIDAcrossBatch(t *testing.T) {
	svc, mockRepo, mockAdapter := newTestSyncSvc(t)
	ctx := context.Background()

	var seen []string
	mockRepo.EXPECT().ListPending(ctx).Return(pendingRecords(2), nil)
	mockAdapter.EXPECT().Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(reqCtx context.Context, _ models.BackupPayload) (string, error) {
			traceID, ok := utils.GetTraceIDFromContext(reqCtx)
			assert.True(t, ok)
			seen = append(seen, traceID)
			return "1", nil
		}).Times(2)
	mockRepo.EXPECT().MarkSynced(ctx, gomock.Any()).Return(nil).Times(2)

	_, err := svc.SyncPending(ctx)
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.NotEmpty(t, seen[0])
	assert.Equal(t, seen[0], seen[1])

	// a caller-supplied trace id wins
	tagged := utils.WithTraceID(ctx, "manual-sync")
	mockRepo.EXPECT().ListPending(tagged).Return(pendingRecords(1), nil)
	mockAdapter.EXPECT().Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(reqCtx context.Context, _ models.BackupPayload) (string, error) {
			traceID, _ := utils.GetTraceIDFromContext(reqCtx)
			assert.Equal(t, "manual-sync", traceID)
			return "1", nil
		})
	mockRepo.EXPECT().MarkSynced(tagged, "r-0").Return(nil)

	_, err = svc.SyncPending(tagged)
	require.NoError(t, err)
}

func TestSyncPending_CancellationSkipsRemaining(t *testing.T) {
	svc, mockRepo, mockAdapter := newTestSyncSvc(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mockRepo.EXPECT().ListPending(ctx).Return(pendingRecords(4), nil)
	gomock.InOrder(
		mockAdapter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("1", nil),
		mockRepo.EXPECT().MarkSynced(ctx, "r-0").Return(nil),
		mockAdapter.EXPECT().Submit(gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, models.BackupPayload) (string, error) {
				cancel()
				return "", fmt.Errorf("%w: %w", adapter.ErrTransport, context.Canceled)
			}),
	)

	report, err := svc.SyncPending(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, report.Synced)
	assert.Equal(t, 1, report.TransportFailed)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, models.SyncOutcomePartial, report.Outcome)
}

func TestSyncPending_RejectsConcurrentBatch(t *testing.T) {
	svc, mockRepo, _ := newTestSyncSvc(t)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	mockRepo.EXPECT().ListPending(ctx).DoAndReturn(func(context.Context) ([]models.ClimateRecord, error) {
		close(entered)
		<-release
		return nil, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := svc.SyncPending(ctx)
		done <- err
	}()

	<-entered
	_, err := svc.SyncPending(ctx)
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(release)
	require.NoError(t, <-done)
}
