package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestMustLoad(t *testing.T) {
	t.Run("Defaults fill missing values", func(t *testing.T) {
		// Given: a config file that only sets the port
		path := writeConfig(t, "http-port: \"8080\"\n")

		// When: it is loaded
		conf := MustLoad(path)

		// Then: everything else takes its default
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, StorageMemory, conf.Storage)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, Timeouts{
			Game:         15 * time.Minute,
			OpenInvite:   10 * time.Minute,
			DirectInvite: 5 * time.Minute,
			Sweep:        30 * time.Second,
		}, conf.Timeouts)
	})

	t.Run("File values override defaults", func(t *testing.T) {
		path := writeConfig(t, `
log-level: debug
storage: redis
redis:
  host: cache
  port: "6380"
timeouts:
  game: 1m
  sweep: 5s
`)

		conf := MustLoad(path)

		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, StorageRedis, conf.Storage)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, time.Minute, conf.Timeouts.Game)
		assert.Equal(t, 5*time.Second, conf.Timeouts.Sweep)
		assert.Equal(t, 10*time.Minute, conf.Timeouts.OpenInvite)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "storage: memory\n")
		t.Setenv("STORAGE", "redis")
		t.Setenv("TIMEOUT_GAME", "2m")

		conf := MustLoad(path)

		assert.Equal(t, StorageRedis, conf.Storage)
		assert.Equal(t, 2*time.Minute, conf.Timeouts.Game)
	})

	t.Run("Unknown storage panics", func(t *testing.T) {
		path := writeConfig(t, "storage: sqlite\n")

		assert.Panics(t, func() { MustLoad(path) })
	})

	t.Run("Missing file panics", func(t *testing.T) {
		assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "nope.yml")) })
	})
}
