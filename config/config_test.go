package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeErrorMessage(t *testing.T) {
	fallback := "operation failed"
	testErr := errors.New("internal backend error")

	// nil err returns the fallback
	assert.Equal(t, fallback, SafeErrorMessage(nil, fallback))

	// release mode returns the fallback, hiding error details
	GlobalConfig = &Config{Server: ServerConfig{Mode: "release"}}
	defer func() { GlobalConfig = nil }()
	assert.Equal(t, fallback, SafeErrorMessage(testErr, fallback))

	// debug mode returns err.Error()
	GlobalConfig = &Config{Server: ServerConfig{Mode: "debug"}}
	assert.Equal(t, "internal backend error", SafeErrorMessage(testErr, fallback))

	// nil GlobalConfig counts as a development environment
	GlobalConfig = nil
	assert.Equal(t, "internal backend error", SafeErrorMessage(testErr, fallback))
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	defer func() { GlobalConfig = nil }()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, "/api/csrf/", cfg.Backend.CSRFPath)
	assert.Equal(t, 30, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, "15", cfg.Business.ReserveRate)
	assert.Equal(t, "15", cfg.Business.ReserveRateValue.String())
	assert.Equal(t, 7, cfg.Business.UrgentWindowDays)
	assert.Equal(t, 5, cfg.Business.UrgentLimit)
	assert.Equal(t, 5, cfg.Business.RecentTransactions)
	assert.False(t, cfg.Email.Enabled)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("FABRIE_SERVER_PORT", "9191")
	t.Setenv("FABRIE_BACKEND_BASE_URL", "http://backend.internal:8000")
	t.Setenv("FABRIE_BUSINESS_RESERVE_RATE", "12.50")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	defer func() { GlobalConfig = nil }()

	assert.Equal(t, "9191", cfg.Server.Port)
	assert.Equal(t, "http://backend.internal:8000", cfg.Backend.BaseURL)
	assert.Equal(t, "12.5", cfg.Business.ReserveRateValue.String())
}

func TestLoadConfigBadReserveRateFallsBack(t *testing.T) {
	t.Setenv("FABRIE_BUSINESS_RESERVE_RATE", "not a number")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	defer func() { GlobalConfig = nil }()

	assert.Equal(t, "15", cfg.Business.ReserveRateValue.String())
}
