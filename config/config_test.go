package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://api.local:5000/")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()

	assert.Equal(t, "http://api.local:5000", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Business.AlertTTL)
	assert.Equal(t, 0, cfg.Business.LineQuantityCap)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ALERT_TTL", "5s")
	t.Setenv("CART_LINE_MAX_QUANTITY", "99")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("VIEW_TTL", "not-a-duration")

	cfg := Load()

	assert.Equal(t, 5*time.Second, cfg.Business.AlertTTL)
	assert.Equal(t, 99, cfg.Business.LineQuantityCap)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Hour, cfg.Store.ViewTTL)
}
