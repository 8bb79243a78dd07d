package http

import (
	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/internal/service"
)

// DefaultBackupPath is the route submissions are accepted on when none is
// configured.
const DefaultBackupPath = "/api/backup"

type Handler struct {
	services   *service.Services
	backupPath string

	logger *logger.Logger
}

func NewHandler(services *service.Services, backupPath string, logger *logger.Logger) *Handler {
	if backupPath == "" {
		backupPath = DefaultBackupPath
	}
	logger.Info().Str("backup_path", backupPath).Msg("http handler created")
	return &Handler{
		services:   services,
		backupPath: backupPath,
		logger:     logger,
	}
}
