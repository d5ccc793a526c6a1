// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"

	"github.com/robfig/cron/v3"
)

// validate checks that the final merged [StructuredConfig] is usable before
// the service starts.
//
// Returns nil if the configuration is valid, or an error wrapping one of the
// ErrInvalid* sentinels otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Remote.TenantID == "" || cfg.Remote.Token == "" {
		return fmt.Errorf("%w: tenant id and token are required", ErrInvalidRemoteConfigs)
	}
	if u, err := url.Parse(cfg.Remote.APIBase); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api base %q is not an absolute URL", ErrInvalidRemoteConfigs, cfg.Remote.APIBase)
	}

	switch cfg.Storage.DB.Driver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if cfg.Storage.DB.DSN == "" {
			return fmt.Errorf("%w: %s requires a DSN", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
		}
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
	}

	if cfg.Server.HTTPAddress != "" && cfg.Webhook.Token == "" {
		return fmt.Errorf("%w: webhook token is required when the server is enabled", ErrInvalidWebhookConfigs)
	}

	if !cfg.Workers.RunOnce {
		if _, err := cron.ParseStandard(cfg.Workers.SyncSchedule); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidWorkerConfigs, err)
		}
	}

	return nil
}
