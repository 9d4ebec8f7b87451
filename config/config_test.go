package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T) *Config {
	t.Helper()
	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))
	return cfg
}

func TestConfig_Defaults(t *testing.T) {
	cfg := parse(t)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, time.Hour, cfg.Lease.RenewalInterval)
	assert.Equal(t, 24*time.Hour, cfg.Lease.SubscriptionDuration)
	assert.Equal(t, "8001", cfg.Service.Port)
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RENEWAL_INTERVAL", "30m")
	t.Setenv("SUBSCRIPTION_DURATION", "48h")
	t.Setenv("SWEEP_INTERVAL", "10m")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")

	cfg := parse(t)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 30*time.Minute, cfg.Lease.RenewalInterval)
	assert.Equal(t, 48*time.Hour, cfg.Lease.SubscriptionDuration)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Kafka.Brokers)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing database host", func(c *Config) { c.Database.Host = "" }},
		{"missing provider url", func(c *Config) { c.Provider.BaseURL = "" }},
		{"non-positive renewal interval", func(c *Config) { c.Lease.RenewalInterval = 0 }},
		{"non-positive duration", func(c *Config) { c.Lease.SubscriptionDuration = -time.Hour }},
		{"sweep longer than renewal interval", func(c *Config) {
			c.Lease.SweepInterval = 2 * c.Lease.RenewalInterval
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := parse(t)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGetDSN(t *testing.T) {
	cfg := parse(t)
	dsn := cfg.Database.GetDSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=subscriptions_db")
	assert.Contains(t, dsn, "sslmode=disable")
}
