// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"REMOTE_API_BASE":        "https://api.example.com/v2",
		"REMOTE_WEB_BASE":        "https://example.com",
		"REMOTE_TENANT_ID":       "123456",
		"REMOTE_TOKEN":           "secret",
		"REMOTE_REQUEST_TIMEOUT": "15s",

		"SERVER_ADDRESS":         "localhost:8080",
		"SERVER_REQUEST_TIMEOUT": "30s",

		"STORAGE_DB_DRIVER":       "sqlite",
		"STORAGE_DB_DATABASE_URI": "file:mirror.db",

		"WEBHOOK_TOKEN":             "hook-token",
		"WEBHOOK_ADMINISTRATION_ID": "123456",

		"WORKERS_SYNC_SCHEDULE": "*/5 * * * *",
		"WORKERS_SYNC_ON_START": "true",
		"WORKERS_RUN_ONCE":      "true",

		"LOG_LEVEL": "debug",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "https://api.example.com/v2", cfg.Remote.APIBase)
	assert.Equal(t, "https://example.com", cfg.Remote.WebBase)
	assert.Equal(t, "123456", cfg.Remote.TenantID)
	assert.Equal(t, "secret", cfg.Remote.Token)
	assert.Equal(t, 15*time.Second, cfg.Remote.RequestTimeout)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)

	assert.Equal(t, DriverSQLite, cfg.Storage.DB.Driver)
	assert.Equal(t, "file:mirror.db", cfg.Storage.DB.DSN)

	assert.Equal(t, "hook-token", cfg.Webhook.Token)
	assert.Equal(t, "123456", cfg.Webhook.AdministrationID)

	assert.Equal(t, "*/5 * * * *", cfg.Workers.SyncSchedule)
	assert.True(t, cfg.Workers.SyncOnStart)
	assert.True(t, cfg.Workers.RunOnce)

	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"REMOTE_TOKEN":   "secret",
		"SERVER_ADDRESS": "localhost:8080",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Remote.Token)
	assert.Empty(t, cfg.Remote.TenantID)
	assert.Zero(t, cfg.Remote.RequestTimeout)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Zero(t, cfg.Server.RequestTimeout)

	assert.Equal(t, Storage{}, cfg.Storage)
	assert.Equal(t, Workers{}, cfg.Workers)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseEnv_EmptyEnv(t *testing.T) {
	// Arrange
	clearEnvVars(t)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	// Arrange
	setEnvVars(t, map[string]string{
		"REMOTE_REQUEST_TIMEOUT": "not-a-duration",
	})

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading environment")
}

func TestParseEnv_InvalidBool(t *testing.T) {
	// Arrange
	setEnvVars(t, map[string]string{
		"WORKERS_RUN_ONCE": "maybe",
	})

	// Act
	err := parseEnv(&StructuredConfig{})

	// Assert
	require.Error(t, err)
}

func TestParseEnvFrom_ExplicitEnvironment(t *testing.T) {
	setEnvVars(t, map[string]string{"REMOTE_TOKEN": "from-process"})

	cfg := &StructuredConfig{}
	err := parseEnvFrom(cfg, map[string]string{
		"REMOTE_TENANT_ID":   "42",
		"SERVER_ADMIN_TOKEN": "admin",
	})

	require.NoError(t, err)
	assert.Equal(t, "42", cfg.Remote.TenantID)
	assert.Equal(t, "admin", cfg.Server.AdminToken)
	assert.Empty(t, cfg.Remote.Token, "process environment must not leak into an explicit one")
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",

		"REMOTE_API_BASE",
		"REMOTE_WEB_BASE",
		"REMOTE_TENANT_ID",
		"REMOTE_TOKEN",
		"REMOTE_REQUEST_TIMEOUT",

		"SERVER_ADDRESS",
		"SERVER_REQUEST_TIMEOUT",
		"SERVER_ADMIN_TOKEN",

		"STORAGE_DB_DRIVER",
		"STORAGE_DB_DATABASE_URI",

		"WEBHOOK_TOKEN",
		"WEBHOOK_ADMINISTRATION_ID",

		"WORKERS_SYNC_SCHEDULE",
		"WORKERS_SYNC_ON_START",
		"WORKERS_RUN_ONCE",

		"LOG_LEVEL",
	}
	for _, k := range keys {
		// t.Setenv registers a restore; an empty value reads as unset for env.Parse.
		t.Setenv(k, "")
	}
}
