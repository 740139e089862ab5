package config

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg := LoadFrom(flag.NewFlagSet("test", flag.ContinueOnError), nil)

	assert.Equal(t, 10, cfg.FleetSize)
	assert.Equal(t, 5*time.Second, cfg.UpdateInterval)
	assert.Equal(t, 15*time.Second, cfg.SampleInterval)
	assert.Equal(t, 8, cfg.WindowCapacity)
	assert.Equal(t, 20.0, cfg.LowBatteryThreshold)
	assert.Equal(t, 0.9, cfg.OnlineRetentionProbability)
	assert.Equal(t, 0.8, cfg.InitialOnlineProbability)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Empty(t, cfg.MQTTBroker)
	assert.Empty(t, cfg.WSOrigins)
	require.NoError(t, cfg.Validate())
}

func TestLoadFrom_EnvThenFlags(t *testing.T) {
	t.Setenv("FLEETDASH_FLEET_SIZE", "25")
	t.Setenv("FLEETDASH_UPDATE_MS", "1000")
	t.Setenv("FLEETDASH_LOW_BATTERY", "not-a-number")

	cfg := LoadFrom(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-robots", "3", "-sample-ms", "250"})

	assert.Equal(t, 3, cfg.FleetSize, "flag overrides env")
	assert.Equal(t, time.Second, cfg.UpdateInterval, "env overrides default")
	assert.Equal(t, 250*time.Millisecond, cfg.SampleInterval)
	assert.Equal(t, 20.0, cfg.LowBatteryThreshold, "unparsable env falls back")
}

func TestLoadFrom_WSOrigins(t *testing.T) {
	t.Setenv("FLEETDASH_WS_ORIGINS", "http://a.example")
	cfg := LoadFrom(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	assert.Equal(t, []string{"http://a.example"}, cfg.WSOrigins)

	cfg = LoadFrom(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-ws-origins", " http://b.example, ,https://c.example:9443 "})
	assert.Equal(t, []string{"http://b.example", "https://c.example:9443"}, cfg.WSOrigins)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return LoadFrom(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative fleet", func(c *Config) { c.FleetSize = -1 }},
		{"zero update period", func(c *Config) { c.UpdateInterval = 0 }},
		{"zero sample period", func(c *Config) { c.SampleInterval = 0 }},
		{"zero window", func(c *Config) { c.WindowCapacity = 0 }},
		{"threshold out of range", func(c *Config) { c.LowBatteryThreshold = 120 }},
		{"retention out of range", func(c *Config) { c.OnlineRetentionProbability = 1.5 }},
		{"initial out of range", func(c *Config) { c.InitialOnlineProbability = -0.1 }},
		{"bad grpc port", func(c *Config) { c.GRPCPort = 70000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	empty := base()
	empty.FleetSize = 0
	assert.NoError(t, empty.Validate(), "an empty fleet is allowed")
}
