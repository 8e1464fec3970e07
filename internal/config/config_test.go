package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestConfig_Validate_Defaults(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown domain", func(c *Config) { c.Normaliser.Domain = "legal" }, "normaliser.domain"},
		{"port too low", func(c *Config) { c.Server.Port = -1 }, "server.port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"negative body size", func(c *Config) { c.Server.MaxBodySize = -1 }, "server.max_body_size"},
		{"redis without addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, "redis.addr"},
		{"negative redis db", func(c *Config) { c.Redis.DB = -2 }, "redis.db"},
		{"no brokers", func(c *Config) { c.Kafka.Brokers = nil }, "kafka.brokers"},
		{"no group", func(c *Config) { c.Kafka.GroupID = "" }, "kafka.group_id"},
		{"same topics", func(c *Config) { c.Kafka.OutputTopic = c.Kafka.InputTopic }, "must differ"},
		{"offset reset", func(c *Config) { c.Kafka.AutoOffsetReset = "middle" }, "auto_offset_reset"},
		{"zero concurrency", func(c *Config) { c.Worker.Concurrency = 0 }, "worker.concurrency"},
		{"bad format", func(c *Config) { c.Worker.Format = "xml" }, "worker.format"},
		{"metrics namespace", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Namespace = "" }, "metrics.namespace"},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "text" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestConfig_Validate_ClinicalAliases(t *testing.T) {
	for _, d := range []string{"clinical", "i2b2", "general", "timeml"} {
		cfg := validConfig()
		cfg.Normaliser.Domain = d
		assert.NoError(t, cfg.Validate(), d)
	}
}

func TestServerConfig_Addr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:9000", ServerConfig{Host: "127.0.0.1", Port: 9000}.Addr())
}

//Personal.AI order the ending
