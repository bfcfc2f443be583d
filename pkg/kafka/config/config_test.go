package kafka_config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, DefaultConsumerGroupID, cfg.ConsumerGroupID)
	assert.Equal(t, DefaultDLQTopic, cfg.DLQTopic)
	assert.Equal(t, DefaultProducerCompression, cfg.ProducerCompression)
	assert.Equal(t, DefaultConsumerMaxRetries, cfg.ConsumerMaxRetries)
}

func TestLoad_BrokerListIsTrimmed(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "kafka-1:9092, kafka-2:9092 ,kafka-3:9092")
	t.Setenv(EnvKafkaConsumerMaxWait, "2s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092", "kafka-3:9092"}, cfg.Brokers)
	assert.Equal(t, 2*time.Second, cfg.ConsumerMaxWait)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty broker", func(c *Config) { c.Brokers = []string{"kafka:9092", ""} }, "Broker 1 cannot be empty"},
		{"no group", func(c *Config) { c.ConsumerGroupID = "" }, "ConsumerGroupID cannot be empty"},
		{"compression", func(c *Config) { c.ProducerCompression = "brotli" }, "ProducerCompression must be one of"},
		{"acks", func(c *Config) { c.ProducerRequireAcks = 2 }, "ProducerRequireAcks must be -1, 0, or 1"},
		{"retries", func(c *Config) { c.ConsumerMaxRetries = -1 }, "ConsumerMaxRetries cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), "Kafka configuration validation failed:"))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
