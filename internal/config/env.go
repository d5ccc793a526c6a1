package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the process environment.
func parseEnv(cfg *StructuredConfig) error {
	return parseEnvFrom(cfg, nil)
}

// parseEnvFrom fills cfg from environ through the `env` and `envPrefix`
// tags. A nil environ reads the process environment.
func parseEnvFrom(cfg *StructuredConfig, environ map[string]string) error {
	opts := env.Options{Environment: environ}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("error reading environment: %w", err)
	}
	return nil
}
