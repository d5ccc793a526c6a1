package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidRemoteConfigs indicates missing or malformed remote API
	// settings (for example, empty tenant id or token).
	ErrInvalidRemoteConfigs = errors.New("invalid remote configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an unknown driver or an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidWebhookConfigs indicates invalid webhook settings.
	ErrInvalidWebhookConfigs = errors.New("invalid webhook configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, an unparsable cron schedule).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
