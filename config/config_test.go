package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "KAFKA_TOPIC_LEAD_EVENTS", "RELAY_ENDPOINT", "SESSION_TTL_MINUTES", "SESSION_LOCK_TTL_SECONDS", "CATALOGUE_PATH"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "lead-events", cfg.Kafka.TopicLeads)
	assert.Equal(t, "https://forminit.com/f", cfg.Relay.Endpoint)
	assert.Equal(t, 120*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 5*time.Second, cfg.Session.LockTTL)
	assert.Empty(t, cfg.Catalogue.Path)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("RELAY_RETRY_MAX", "7")
	t.Setenv("SESSION_TTL_MINUTES", "15")
	t.Setenv("CATALOGUE_PATH", "/etc/catalogue.yaml")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 7, cfg.Relay.RetryMax)
	assert.Equal(t, 15*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "/etc/catalogue.yaml", cfg.Catalogue.Path)
}
