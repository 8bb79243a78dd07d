package main

import (
	"context"

	"github.com/MKhiriev/go-climate-keeper/internal/config"
	"github.com/MKhiriev/go-climate-keeper/internal/handler"
	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/internal/server"
	"github.com/MKhiriev/go-climate-keeper/internal/service"
	"github.com/MKhiriev/go-climate-keeper/internal/store"
	"github.com/MKhiriev/go-climate-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)

	log := logger.NewLogger("climate-backup-receiver")
	log.Info().Stringer("build", buildInfo).Msg("starting backup receiver")

	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.Version == "" {
		cfg.Version = buildInfo.BuildVersion()
	}

	storages, err := store.NewServerStorages(context.Background(), cfg.DSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	services, err := service.NewServices(storages, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}
