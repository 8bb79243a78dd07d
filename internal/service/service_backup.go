package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-climate-keeper/internal/app"
	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/internal/store"
	"github.com/MKhiriev/go-climate-keeper/internal/validators"
	"github.com/MKhiriev/go-climate-keeper/models"
)

type backupService struct {
	backups   store.BackupRepository
	validator validators.Validator

	logger *logger.Logger
}

func NewBackupService(backups store.BackupRepository, logger *logger.Logger) BackupService {
	return &backupService{
		backups:   backups,
		validator: validators.NewClimateRecordValidator(),
		logger:    logger,
	}
}

func (s *backupService) Store(ctx context.Context, p models.BackupPayload) error {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, p); err != nil {
		log.Info().Err(err).Str("func", "*backupService.Store").Str("record_id", p.ID).Msg(app.MsgSubmissionRejected)
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	if err := s.backups.Upsert(ctx, p); err != nil {
		return err
	}

	log.Debug().Str("func", "*backupService.Store").Str("record_id", p.ID).Msg(app.MsgSubmissionStored)
	return nil
}
