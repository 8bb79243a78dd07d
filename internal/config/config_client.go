package config

import (
	"fmt"
	"time"
)

// ClientApp holds identifier allocation settings of the field client.
type ClientApp struct {
	// Version is reported in the startup log line.
	Version string
	// IDStrategy selects the record identifier allocator.
	IDStrategy string
	// IDMaxAttempts bounds the redraws of the region allocator.
	IDMaxAttempts int
	// RegionPrefixes maps region names to identifier prefixes.
	RegionPrefixes map[string]int
}

// ClientAdapter holds the remote backup endpoint settings.
type ClientAdapter struct {
	// BackupURL is the absolute URL records are submitted to.
	BackupURL string
	// RequestTimeout bounds a single submission.
	RequestTimeout time.Duration
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// LocalPath is the SQLite database file path.
	LocalPath string
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the sync job runs.
	SyncInterval time.Duration
}

// ClientConfig is the field client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
}

// GetClientConfig builds and validates the client configuration view from
// the merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			Version:        cfg.App.Version,
			IDStrategy:     cfg.App.IDStrategy,
			IDMaxAttempts:  cfg.App.IDMaxAttempts,
			RegionPrefixes: cfg.App.RegionPrefixes,
		},
		Adapter: ClientAdapter{
			BackupURL:      cfg.Adapter.BackupURL,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			LocalPath: cfg.Storage.Local.Path,
		},
		Workers: ClientWorkers{SyncInterval: cfg.Workers.SyncInterval},
	}
}
