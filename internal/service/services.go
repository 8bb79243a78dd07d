package service

import (
	"github.com/MKhiriev/go-climate-keeper/internal/config"
	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/internal/store"
)

type Services struct {
	AppInfoService AppInfoService
	BackupService  BackupService
}

func NewServices(storages *store.ServerStorages, cfg *config.ServerConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.Version, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AppInfoService: appInfo,
		BackupService:  NewBackupService(storages.Backups, logger),
	}, nil
}
