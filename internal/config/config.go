// Package config defines the configuration of the timexnorm binaries.  Plain
// data types and validation live here; loading is in loader.go.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/timexnorm/internal/infrastructure/database/redis"
	"github.com/turtacn/timexnorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/timexnorm/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/timexnorm/internal/intelligence/timex_normaliser"
	"github.com/turtacn/timexnorm/pkg/types/timex"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// KafkaConfig holds the annotation pipeline topics and client settings.
type KafkaConfig struct {
	Brokers           []string `mapstructure:"brokers"`
	GroupID           string   `mapstructure:"group_id"`
	InputTopic        string   `mapstructure:"input_topic"`
	OutputTopic       string   `mapstructure:"output_topic"`
	DeadLetterTopic   string   `mapstructure:"dead_letter_topic"`
	AutoOffsetReset   string   `mapstructure:"auto_offset_reset"` // "earliest" | "latest"
	MaxRetries        int      `mapstructure:"max_retries"`
	AutoCreateTopics  bool     `mapstructure:"auto_create_topics"`
	NumPartitions     int      `mapstructure:"num_partitions"`
	ReplicationFactor int      `mapstructure:"replication_factor"`
}

// WorkerConfig holds batch and stream annotation parameters.
type WorkerConfig struct {
	// Concurrency bounds the documents annotated in parallel.
	Concurrency int `mapstructure:"concurrency"`
	// Format is the TIMEX3 dialect of emitted annotations: "timeml" | "i2b2".
	Format string `mapstructure:"format"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration shared by timexnorm, apiserver and worker.
type Config struct {
	Normaliser timex_normaliser.Config    `mapstructure:"normaliser"`
	Server     ServerConfig               `mapstructure:"server"`
	Redis      redis.RedisConfig          `mapstructure:"redis"`
	Kafka      KafkaConfig                `mapstructure:"kafka"`
	Worker     WorkerConfig               `mapstructure:"worker"`
	Metrics    prometheus.CollectorConfig `mapstructure:"metrics"`
	Log        logging.LogConfig          `mapstructure:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config and
// returns the first problem found.
func (c *Config) Validate() error {
	// Normaliser
	if _, ok := timex.ParseDomain(c.Normaliser.Domain); !ok {
		return fmt.Errorf("config: normaliser.domain %q is invalid; expected general|clinical", c.Normaliser.Domain)
	}

	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.MaxBodySize < 0 {
		return fmt.Errorf("config: server.max_body_size must be ≥ 0, got %d", c.Server.MaxBodySize)
	}

	// Redis
	if c.Redis.Enabled && c.Redis.Addr == "" && len(c.Redis.ClusterAddrs) == 0 && len(c.Redis.SentinelAddrs) == 0 {
		return fmt.Errorf("config: redis.addr is required when redis.enabled is set")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("config: redis.ttl must be ≥ 0, got %s", c.Redis.TTL)
	}

	// Kafka
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
	}
	if c.Kafka.GroupID == "" {
		return fmt.Errorf("config: kafka.group_id is required")
	}
	if c.Kafka.InputTopic == "" || c.Kafka.OutputTopic == "" {
		return fmt.Errorf("config: kafka.input_topic and kafka.output_topic are required")
	}
	if c.Kafka.InputTopic == c.Kafka.OutputTopic {
		return fmt.Errorf("config: kafka.input_topic and kafka.output_topic must differ")
	}
	switch c.Kafka.AutoOffsetReset {
	case "earliest", "latest":
	default:
		return fmt.Errorf("config: kafka.auto_offset_reset %q is invalid; expected earliest|latest", c.Kafka.AutoOffsetReset)
	}
	if c.Kafka.MaxRetries < 0 {
		return fmt.Errorf("config: kafka.max_retries must be ≥ 0, got %d", c.Kafka.MaxRetries)
	}

	// Worker
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("config: worker.concurrency must be ≥ 1, got %d", c.Worker.Concurrency)
	}
	switch c.Worker.Format {
	case "timeml", "i2b2":
	default:
		return fmt.Errorf("config: worker.format %q is invalid; expected timeml|i2b2", c.Worker.Format)
	}

	// Metrics
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics.enabled is set")
	}

	// Log
	switch c.Log.Level {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

//Personal.AI order the ending
