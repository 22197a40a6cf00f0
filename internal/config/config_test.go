package config

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Should apply defaults", func(t *testing.T) {
		chdir(t, t.TempDir())
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
		assert.Equal(t, "data/village.db", cfg.Database.Path)
		assert.Equal(t, 60, cfg.Auth.TokenTTLMinutes)
		assert.Equal(t, "receipts", cfg.Storage.KeyPrefix)
		assert.Error(t, cfg.Validate())
	})

	t.Run("Should read prefixed environment variables", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("CONDO_SERVER_ADDR", "127.0.0.1:9000")
		t.Setenv("CONDO_AUTH_JWTSECRET", "s3cret")
		t.Setenv("CONDO_AUTH_TOKENTTLMINUTES", "15")
		t.Setenv("CONDO_STORAGE_BUCKET", "village-receipts")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
		assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
		assert.Equal(t, 15, cfg.Auth.TokenTTLMinutes)
		assert.Equal(t, "village-receipts", cfg.Storage.Bucket)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Should require admin email and password together", func(t *testing.T) {
		var cfg Config
		cfg.Auth.JWTSecret = "x"
		cfg.Auth.TokenTTLMinutes = 1
		cfg.Auth.AdminEmail = "admin@example.com"
		assert.Error(t, cfg.Validate())
		cfg.Auth.AdminPassword = "password123"
		assert.NoError(t, cfg.Validate())
	})
}

func TestNewLogger(t *testing.T) {
	var cfg Config
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"
	logger := cfg.NewLogger()
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	cfg.Log.Level = "loud"
	assert.Equal(t, logrus.InfoLevel, cfg.NewLogger().GetLevel())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
