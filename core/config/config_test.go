package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 500, cfg.Import.BatchSize)
	assert.Equal(t, 30*time.Second, cfg.Import.CatalogTTL)
	assert.Equal(t, []string{"full", "fulfillment", "fullfilment"}, cfg.Import.FulfillmentKeywords)
	assert.Equal(t, "memory", cfg.Progress.Backend)
	assert.Equal(t, 2*time.Minute, cfg.Progress.Grace)
	assert.Equal(t, "log", cfg.Audit.Sink)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("IMPORT_BATCH_SIZE", "50")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("PROGRESS_BACKEND", "redis")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Import.BatchSize)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "redis", cfg.Progress.Backend)
}
