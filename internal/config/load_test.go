package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the settings that have no usable default so that
// Load can succeed.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PRESENTPAL_STORAGE_ACCESS_KEY", "test-access")
	t.Setenv("PRESENTPAL_STORAGE_SECRET_KEY", "test-secret")
	t.Setenv("PRESENTPAL_SERVICES_AUDIO_URL", "http://audio.test/upload_ppt")
	t.Setenv("PRESENTPAL_SERVICES_ANIMATION_URL", "http://animation.test/animate")
	t.Setenv("PRESENTPAL_SERVICES_COMPOSE_URL", "http://compose.test/process")
	t.Setenv("PRESENTPAL_SERVICES_ASK_URL", "http://qa.test/ask")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5100, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "localhost:9000", cfg.Storage.Endpoint)
	assert.False(t, cfg.Storage.UseSSL)
	assert.Equal(t, "soffice", cfg.Converter.SofficePath)
	assert.Equal(t, "pdftoppm", cfg.Converter.PdftoppmPath)
	assert.Equal(t, "uploads", cfg.Pipeline.UploadDir)
	assert.Equal(t, 120, cfg.Pipeline.MediaTimeoutSeconds)
	assert.Equal(t, 180, cfg.Pipeline.ComposeTimeoutSeconds)
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PRESENTPAL_SERVER_PORT", "8080")
	t.Setenv("PRESENTPAL_SERVER_LOG_LEVEL", "debug")
	t.Setenv("PRESENTPAL_STORAGE_ENDPOINT", "minio.internal:9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "minio.internal:9000", cfg.Storage.Endpoint)
	assert.Equal(t, "test-access", cfg.Storage.AccessKey)
}

func TestLoadMissingRequiredSettings(t *testing.T) {
	// Storage credentials and service endpoints are absent.
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PRESENTPAL_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsInvalidServiceURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PRESENTPAL_SERVICES_AUDIO_URL", "not-a-url")

	_, err := Load()
	require.Error(t, err)
}

func TestPipelineTimeoutConversions(t *testing.T) {
	cfg := PipelineConfig{MediaTimeoutSeconds: 120, ComposeTimeoutSeconds: 180}
	assert.Equal(t, "2m0s", cfg.MediaTimeout().String())
	assert.Equal(t, "3m0s", cfg.ComposeTimeout().String())
}
