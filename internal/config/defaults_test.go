package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/timexnorm/internal/infrastructure/messaging/kafka"
)

func TestApplyDefaults_ZeroConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, "general", cfg.Normaliser.Domain)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(DefaultMaxBodySize), cfg.Server.MaxBodySize)
	assert.Equal(t, "standalone", cfg.Redis.Mode)
	assert.Equal(t, DefaultRedisKeyPrefix, cfg.Redis.KeyPrefix)
	assert.Equal(t, DefaultRedisTTL, cfg.Redis.TTL)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, kafka.TopicDocuments, cfg.Kafka.InputTopic)
	assert.Equal(t, kafka.TopicAnnotations, cfg.Kafka.OutputTopic)
	assert.Equal(t, kafka.TopicDeadLetter, cfg.Kafka.DeadLetterTopic)
	assert.Equal(t, "earliest", cfg.Kafka.AutoOffsetReset)
	assert.Equal(t, DefaultWorkerConcurrency, cfg.Worker.Concurrency)
	assert.Equal(t, "timeml", cfg.Worker.Format)
	assert.Equal(t, "timexnorm", cfg.Metrics.Namespace)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Normaliser.Domain = "clinical"
	cfg.Server.Port = 9999
	cfg.Kafka.Brokers = []string{"kafka:29092"}
	cfg.Worker.Format = "i2b2"
	cfg.Log.Level = "debug"
	ApplyDefaults(cfg)

	assert.Equal(t, "clinical", cfg.Normaliser.Domain)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, []string{"kafka:29092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "i2b2", cfg.Worker.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

//Personal.AI order the ending
