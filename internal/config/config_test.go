package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinemood/internal/logging"
)

func TestLoadMySQL(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("IDENTITY_JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "cinemood")
	t.Setenv("RABBITMQ_URL", "amqp://mq/")

	cfg := Load()
	assert.Equal(t, DriverMySQL, cfg.StoreDriver)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "amqp://mq/", cfg.AMQPURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.EventsEnabled)
}

func TestLoadMongo(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("IDENTITY_JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("EVENTS_ENABLED", "off")

	cfg := Load()
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "cinemood", cfg.MongoDB)
	assert.False(t, cfg.EventsEnabled)
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 10*time.Second, rl.TTL)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "bogus")

	cc := LoadCacheConfig()
	assert.True(t, cc.Methods["GET"])
	assert.True(t, cc.Methods["HEAD"])
	assert.Equal(t, 30*time.Second, cc.TTL)
}

func TestLoadDotEnvLayersAndReportsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("BROKEN=\"unterminated\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CINEMOOD_DOTENV_KEY=from-dotenv\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("APP_ENV", "test")
	t.Setenv("CINEMOOD_DOTENV_KEY", "")
	os.Unsetenv("CINEMOOD_DOTENV_KEY")

	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.Config{}) })

	LoadDotEnv()
	assert.Equal(t, "from-dotenv", os.Getenv("CINEMOOD_DOTENV_KEY"))
	assert.Contains(t, buf.String(), ".env.local")
	assert.Contains(t, buf.String(), "skipping unreadable env file")
}
