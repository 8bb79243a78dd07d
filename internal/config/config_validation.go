// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validate checks source-independent invariants of the merged config.
// View-specific requirements are checked by the client and server views.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.IDMaxAttempts < 0 {
		return fmt.Errorf("%w: id max attempts must not be negative", ErrInvalidAppConfigs)
	}
	for name, prefix := range cfg.App.RegionPrefixes {
		if prefix < 0 {
			return fmt.Errorf("%w: negative prefix for region %q", ErrInvalidAppConfigs, name)
		}
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if strings.TrimSpace(cfg.Storage.LocalPath) == "" {
		return ErrInvalidStorageConfigs
	}

	u, err := url.Parse(cfg.Adapter.BackupURL)
	if cfg.Adapter.BackupURL == "" || err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: backup url %q must be an absolute http(s) URL", ErrInvalidAdapterConfigs, cfg.Adapter.BackupURL)
	}
	if cfg.Adapter.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidAdapterConfigs)
	}

	if cfg.Workers.SyncInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	switch cfg.App.IDStrategy {
	case IDStrategyUUID:
	case IDStrategyRegion:
		if cfg.App.IDMaxAttempts <= 0 || len(cfg.App.RegionPrefixes) == 0 {
			return fmt.Errorf("%w: region strategy needs attempts and a prefix table", ErrInvalidAppConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown id strategy %q", ErrInvalidAppConfigs, cfg.App.IDStrategy)
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.DSN == "" {
		return ErrInvalidStorageConfigs
	}
	if cfg.HTTPAddress == "" || cfg.RequestTimeout <= 0 || !strings.HasPrefix(cfg.BackupPath, "/") {
		return ErrInvalidServerConfigs
	}
	return nil
}
