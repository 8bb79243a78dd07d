// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-climate-keeper/internal/adapter"
	"github.com/MKhiriev/go-climate-keeper/internal/idgen"
	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/internal/store"
	"github.com/MKhiriev/go-climate-keeper/internal/utils"
	"github.com/MKhiriev/go-climate-keeper/models"
)

// RejectedReply is the trimmed reply body with which the backup endpoint
// refuses a record.
const RejectedReply = "2"

// DefaultRequestTimeout bounds a single submission when no timeout is
// configured.
const DefaultRequestTimeout = 15 * time.Second

type syncService struct {
	records store.RecordRepository
	adapter adapter.BackupAdapter

	requestTimeout time.Duration
	running        sync.Mutex

	logger *logger.Logger
}

// NewSyncService creates the sync engine. Each submission is bounded by
// requestTimeout.
func NewSyncService(records store.RecordRepository, backupAdapter adapter.BackupAdapter, requestTimeout time.Duration, logger *logger.Logger) SyncService {
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}
	return &syncService{
		records:        records,
		adapter:        backupAdapter,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}

// SyncPending implements [SyncService]. Records are submitted one at a time,
// all under the batch's trace id, taken from ctx or freshly generated.
// A failure of one record never stops the batch; only cancellation of ctx
// does, in which case the remaining records are counted as skipped and the
// report is returned together with ctx.Err().
func (s *syncService) SyncPending(ctx context.Context) (models.SyncReport, error) {
	if !s.running.TryLock() {
		return models.SyncReport{}, ErrSyncInProgress
	}
	defer s.running.Unlock()

	log := logger.FromContext(ctx)

	traceID, ok := utils.GetTraceIDFromContext(ctx)
	if !ok {
		traceID = idgen.NewUUID()
	}

	pending, err := s.records.ListPending(ctx)
	if err != nil {
		log.Err(err).Str("func", "*syncService.SyncPending").Msg("error listing pending records")
		return models.SyncReport{}, fmt.Errorf("error listing pending records: %w", err)
	}

	report := models.SyncReport{Total: len(pending)}
	for i, record := range pending {
		if err = ctx.Err(); err != nil {
			report.Skipped = len(pending) - i
			report = report.Finalize()
			log.Warn().Err(err).Str("func", "*syncService.SyncPending").Str("trace_id", traceID).Stringer("report", report).Msg("sync cancelled")
			return report, err
		}
		s.syncRecord(ctx, traceID, record, &report)
	}

	report = report.Finalize()
	log.Info().Str("func", "*syncService.SyncPending").Str("trace_id", traceID).Stringer("report", report).Msg("sync finished")
	return report, nil
}

func (s *syncService) syncRecord(ctx context.Context, traceID string, record models.ClimateRecord, report *models.SyncReport) {
	log := logger.FromContext(ctx)

	reqCtx, cancel := context.WithTimeout(utils.WithTraceID(ctx, traceID), s.requestTimeout)
	reply, err := s.adapter.Submit(reqCtx, models.NewBackupPayload(record))
	cancel()

	switch {
	case err != nil:
		report.TransportFailed++
		report.Failures = append(report.Failures, models.RecordFailure{RecordID: record.ID, Err: err})
		log.Warn().Err(err).Str("func", "*syncService.syncRecord").Str("record_id", record.ID).Msg("record not delivered")
		return

	case strings.TrimSpace(reply) == RejectedReply:
		report.Rejected++
		report.Failures = append(report.Failures, models.RecordFailure{RecordID: record.ID, Err: ErrRejected})
		log.Warn().Str("func", "*syncService.syncRecord").Str("record_id", record.ID).Msg("record rejected")
		return
	}

	if err = s.records.MarkSynced(ctx, record.ID); err != nil {
		report.StoreFailed++
		report.Failures = append(report.Failures, models.RecordFailure{RecordID: record.ID, Err: err})
		log.Err(err).Str("func", "*syncService.syncRecord").Str("record_id", record.ID).Msg("record delivered but not marked synced")
		return
	}

	report.Synced++
}
