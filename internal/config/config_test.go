// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "revenue-daily", cfg.Data.DefaultSourceID)
	assert.Equal(t, 30, cfg.Data.HorizonDays)
	assert.Positive(t, cfg.RateLimit.RequestsPerSecond)
}

func TestLoadFile(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "server:\n  port: 9000\ndata:\n  horizon_days: 60\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, 60, cfg.Data.HorizonDays)
		// untouched values keep their defaults
		assert.Equal(t, "revenue-daily", cfg.Data.DefaultSourceID)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadFile("/does/not/exist.yaml")
		assert.Error(t, err)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o600))
		_, err := LoadFile(path)
		assert.Error(t, err)
	})
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SIGNALCRAFT_PORT", "9100")
	t.Setenv("SIGNALCRAFT_JWT_SECRET", "env-secret")
	t.Setenv("SIGNALCRAFT_HORIZON_DAYS", "45")

	cfg := Default()
	LoadFromEnv(cfg)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 45, cfg.Data.HorizonDays)
}
