package main

import (
	"github.com/MKhiriev/go-climate-keeper/internal/adapter"
	"github.com/MKhiriev/go-climate-keeper/internal/client"
	"github.com/MKhiriev/go-climate-keeper/internal/config"
	"github.com/MKhiriev/go-climate-keeper/internal/logger"
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

	log := logger.NewClientLogger("climate-keeper-client")
	log.Info().Stringer("build", buildInfo).Msg("starting client")

	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	backupAdapter, err := adapter.NewHTTPBackupAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create backup adapter")
	}

	storages := store.NewClientStorages(cfg.Storage.LocalPath, log)

	services, err := service.NewClientServices(storages, backupAdapter, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create client services")
	}

	app, err := client.NewApp(storages, services, cfg.Workers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}
