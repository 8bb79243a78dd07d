package client

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-climate-keeper/internal/config"
	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/internal/service"
	"github.com/MKhiriev/go-climate-keeper/internal/store"
	"github.com/MKhiriev/go-climate-keeper/internal/workers"
)

type App struct {
	storages *store.ClientStorages
	services *service.ClientServices
	workers  *workers.Workers

	logger *logger.Logger
}

func NewApp(storages *store.ClientStorages, services *service.ClientServices, cfg config.ClientWorkers, logger *logger.Logger) (*App, error) {
	if storages == nil || services == nil {
		return nil, errors.New("client app needs storages and services")
	}

	return &App{
		storages: storages,
		services: services,
		workers:  workers.New(workers.NewSyncWorker(services.SyncJob, cfg.SyncInterval)),
		logger:   logger,
	}, nil
}

// Run blocks until SIGINT, SIGTERM or SIGQUIT, then closes the device store.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	defer func() {
		if err := a.storages.Close(); err != nil {
			a.logger.Err(err).Msg("error closing device store")
		}
	}()

	if _, err := a.storages.Handle.DB(ctx); err != nil {
		return fmt.Errorf("open device store: %w", err)
	}

	if user, ok, err := a.services.SessionService.CurrentUser(ctx); err == nil && ok {
		a.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("session restored")
	}

	// the worker syncs right away, then on every tick
	a.logger.Info().Msg("sync worker started")
	a.workers.Run(ctx)
	a.logger.Info().Msg("client stopped")

	return nil
}
