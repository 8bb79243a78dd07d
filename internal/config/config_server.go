package config

import (
	"fmt"
	"time"
)

// ServerConfig is the backup receiver configuration assembled from
// [StructuredConfig].
type ServerConfig struct {
	// Version is reported in the startup log line.
	Version string
	// HTTPAddress is the listen address in "host:port" format.
	HTTPAddress string
	// RequestTimeout bounds a single inbound request.
	RequestTimeout time.Duration
	// BackupPath is the route accepting backup submissions.
	BackupPath string
	// DSN is the PostgreSQL connection string.
	DSN string
}

// GetServerConfig builds and validates the backup receiver configuration
// view from the merged structured configuration.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := newServerConfig(cfg)
	return serverCfg, serverCfg.validate()
}

func newServerConfig(cfg *StructuredConfig) *ServerConfig {
	return &ServerConfig{
		Version:        cfg.App.Version,
		HTTPAddress:    cfg.Server.HTTPAddress,
		RequestTimeout: cfg.Server.RequestTimeout,
		BackupPath:     cfg.Server.BackupPath,
		DSN:            cfg.Storage.DB.DSN,
	}
}
