package config

import (
	"errors"
	"fmt"
	"os"

	"dario.cat/mergo"
)

// configBuilder collects partial configs in priority order; later sources
// override non-zero fields of earlier ones.
type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

// add records cfg, or the error of the source that failed to produce it.
func (b *configBuilder) add(source string, cfg *StructuredConfig, err error) *configBuilder {
	if err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("%s: %w", source, err))
		return b
	}
	if cfg != nil {
		b.configs = append(b.configs, cfg)
	}
	return b
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error loading config: %w", b.err)
	}

	merged := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(merged, cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	if err := merged.validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

func (b *configBuilder) withDefaults() *configBuilder {
	return b.add("defaults", defaultConfig(), nil)
}

func (b *configBuilder) withEnv() *configBuilder {
	return b.withEnvironment(nil)
}

// withEnvironment reads environ instead of the process environment when
// it is not nil.
func (b *configBuilder) withEnvironment(environ map[string]string) *configBuilder {
	cfg := new(StructuredConfig)
	if err := parseEnvFrom(cfg, environ); err != nil {
		return b.add("env", nil, err)
	}
	return b.add("env", cfg, nil)
}

func (b *configBuilder) withFlags() *configBuilder {
	return b.withArgs(os.Args[1:])
}

func (b *configBuilder) withArgs(args []string) *configBuilder {
	cfg, err := parseFlags(args)
	return b.add("flags", cfg, err)
}

// withJSON loads the file named by the last source that set JSONFilePath.
func (b *configBuilder) withJSON() *configBuilder {
	var path string
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			path = cfg.JSONFilePath
		}
	}
	if path == "" {
		return b
	}

	cfg, err := parseJSON(path)
	return b.add("json "+path, cfg, err)
}
