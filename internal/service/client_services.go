package service

import (
	"fmt"

	"github.com/MKhiriev/go-climate-keeper/internal/adapter"
	"github.com/MKhiriev/go-climate-keeper/internal/config"
	"github.com/MKhiriev/go-climate-keeper/internal/idgen"
	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/internal/store"
)

type ClientServices struct {
	RecordService  RecordService
	SessionService SessionService
	SyncService    SyncService
	SyncJob        SyncJob
}

// NewClientServices wires the field client services. The identifier
// allocator is chosen by cfg.App.IDStrategy.
func NewClientServices(storages *store.ClientStorages, backupAdapter adapter.BackupAdapter, cfg *config.ClientConfig, logger *logger.Logger, opts ...RecordOption) (*ClientServices, error) {
	allocator, err := idgen.New(idgen.Config{
		Strategy:       cfg.App.IDStrategy,
		MaxAttempts:    cfg.App.IDMaxAttempts,
		RegionPrefixes: cfg.App.RegionPrefixes,
	}, storages.Records)
	if err != nil {
		return nil, fmt.Errorf("error creating id allocator: %w", err)
	}

	syncSvc := NewSyncService(storages.Records, backupAdapter, cfg.Adapter.RequestTimeout, logger)

	return &ClientServices{
		RecordService:  NewRecordService(storages.Records, storages.Users, allocator, storages.Handle, logger, opts...),
		SessionService: NewSessionService(storages.Users, logger),
		SyncService:    syncSvc,
		SyncJob:        NewSyncJob(syncSvc, logger),
	}, nil
}
