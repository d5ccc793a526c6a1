package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svthalia/concrexit-sub001/internal/config"
	"github.com/svthalia/concrexit-sub001/internal/logger"
	"github.com/svthalia/concrexit-sub001/internal/service"
)

func newTestConfig() *config.StructuredConfig {
	return &config.StructuredConfig{
		Remote:  config.Remote{TenantID: "123456"},
		Server:  config.Server{HTTPAddress: ":8080"},
		Webhook: config.Webhook{Token: "hook-secret"},
	}
}

func TestNewHandlers_HTTP(t *testing.T) {
	h, err := NewHandlers(&service.Services{}, newTestConfig(), logger.Nop())

	require.NoError(t, err)
	require.NotNil(t, h)
	assert.NotNil(t, h.HTTP)
	assert.NotNil(t, h.HTTP.Init())
}

func TestNewHandlers_NoAddress(t *testing.T) {
	cfg := newTestConfig()
	cfg.Server.HTTPAddress = ""

	h, err := NewHandlers(&service.Services{}, cfg, logger.Nop())

	require.ErrorIs(t, err, errNoHandlersAreCreated)
	assert.Nil(t, h)
}
