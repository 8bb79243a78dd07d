package service

import (
	"context"

	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/internal/store"
	"github.com/MKhiriev/go-climate-keeper/models"
)

type sessionService struct {
	users store.UserRepository

	logger *logger.Logger
}

func NewSessionService(users store.UserRepository, logger *logger.Logger) SessionService {
	return &sessionService{users: users, logger: logger}
}

func (s *sessionService) Login(ctx context.Context, username, password string) (models.User, error) {
	log := logger.FromContext(ctx)

	user, ok, err := s.users.ValidateLogin(ctx, username, password)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		log.Info().Str("func", "*sessionService.Login").Str("username", username).Msg("login rejected")
		return models.User{}, ErrInvalidCredentials
	}

	log.Info().Str("func", "*sessionService.Login").Str("user_id", user.ID).Msg("session started")
	return user, nil
}

func (s *sessionService) CurrentUser(ctx context.Context) (models.User, bool, error) {
	return s.users.CurrentUser(ctx)
}

func (s *sessionService) Logout(ctx context.Context) error {
	if err := s.users.Logout(ctx); err != nil {
		return err
	}
	logger.FromContext(ctx).Info().Str("func", "*sessionService.Logout").Msg("session ended")
	return nil
}

func (s *sessionService) SetRegion(ctx context.Context, userID, region string) error {
	return s.users.AssignRegion(ctx, userID, region)
}
