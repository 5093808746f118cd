package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
postgres:
  dsn: postgres://file
nats:
  url: nats://file:4222
jwt:
  secret: file-secret
http:
  allowed_origins: ["https://a.example"]
scoring:
  growth_window: 5
  cost_per_byte: 3
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "postgres://file", cfg.Postgres.DSN)
	assert.Equal(t, "postgres", cfg.Postgres.Driver)
	assert.Equal(t, "nats://file:4222", cfg.NATS.URL)
	assert.Equal(t, []string{"https://a.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 5, cfg.Scoring.GrowthWindow)
	assert.Equal(t, 10, cfg.Scoring.InitialCapacity)
	assert.Equal(t, int64(3), cfg.Scoring.CostPerByte)
	assert.Equal(t, int64(5*16*3*100), cfg.Scoring.InitialGrant)
	assert.Equal(t, 24*time.Hour, cfg.JWT.DefaultTTL)
}

func TestLoadConfig_InitialGrantCoversGrowth(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("NATS_IN_MEMORY", "true")
	t.Setenv("JWT_SECRET", "s")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, int64(160), cfg.Scoring.WindowCost())
	assert.GreaterOrEqual(t, cfg.Scoring.InitialGrant, cfg.Scoring.WindowCost())

	t.Setenv("SCORING_INITIAL_GRANT", "42")
	cfg, err = LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Scoring.InitialGrant)

	t.Setenv("SCORING_INITIAL_GRANT", "-1")
	_, err = LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "must not be negative")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("JWT_DEFAULT_TTL", "90m")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://x.example,https://y.example")

	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "postgres://env", cfg.Postgres.DSN)
	assert.Equal(t, 90*time.Minute, cfg.JWT.DefaultTTL)
	assert.Equal(t, []string{"https://x.example", "https://y.example"}, cfg.HTTP.AllowedOrigins)
}

func TestLoadConfig_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("NATS_IN_MEMORY", "true")
	t.Setenv("JWT_SECRET", "s")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Postgres.Driver)
	assert.True(t, cfg.NATS.InMemory)
}

func TestLoadConfig_Validation(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "postgres:\n  driver: mysql\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
	assert.Contains(t, err.Error(), "nats.url")
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestLoadConfig_BadYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "postgres: [\n"))
	assert.Error(t, err)
}
