package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/timexnorm/internal/infrastructure/monitoring/logging"
)

const validConfigYAML = `
normaliser:
  domain: clinical
  use_document_state: false
server:
  host: "127.0.0.1"
  port: 8181
  read_timeout: 5s
redis:
  enabled: true
  addr: "redis:6379"
  ttl: 1h
kafka:
  brokers: ["kafka-1:9092", "kafka-2:9092"]
  group_id: "annotators"
worker:
  concurrency: 4
  format: i2b2
log:
  level: debug
  format: console
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timexnorm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "clinical", cfg.Normaliser.Domain)
	assert.False(t, cfg.Normaliser.UseDocumentState)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultWriteTimeout, cfg.Server.WriteTimeout)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "annotators", cfg.Kafka.GroupID)
	assert.Equal(t, 4, cfg.Worker.Concurrency)
	assert.Equal(t, "i2b2", cfg.Worker.Format)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	_, err := Load(writeConfig(t, "normaliser:\n  domain: legal\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("TIMEXNORM_SERVER_PORT", "9090")
	t.Setenv("TIMEXNORM_WORKER_FORMAT", "timeml")

	cfg, err := Load(writeConfig(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "timeml", cfg.Worker.Format)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "general", cfg.Normaliser.Domain)
	assert.True(t, cfg.Normaliser.UseDocumentState)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("TIMEXNORM_NORMALISER_DOMAIN", "clinical")
	t.Setenv("TIMEXNORM_REDIS_ADDR", "cache:6380")
	t.Setenv("TIMEXNORM_WORKER_CONCURRENCY", "2")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "clinical", cfg.Normaliser.Domain)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Worker.Concurrency)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)

	cfg, err = LoadOrDefault(writeConfig(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "log:\n  level: warn\n")

	var level atomic.Value
	Watch(path, func(cfg *Config) { level.Store(cfg.Log.Level) })

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o600))
	assert.Eventually(t, func() bool {
		v, _ := level.Load().(string)
		return v == logging.LevelError
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatchLogLevel(t *testing.T) {
	path := writeConfig(t, "log:\n  level: warn\n")
	out := filepath.Join(t.TempDir(), "app.log")
	logger, err := logging.NewLogger(logging.LogConfig{Level: logging.LevelWarn, OutputPaths: []string{out}})
	require.NoError(t, err)

	WatchLogLevel(path, logger)
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))

	assert.Eventually(t, func() bool {
		logger.Debug("debug enabled")
		raw, err := os.ReadFile(out)
		return err == nil && strings.Contains(string(raw), "debug enabled")
	}, 5*time.Second, 20*time.Millisecond)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "absent.yaml")) })
}

//Personal.AI order the ending
