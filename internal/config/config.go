package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Fleet simulation
	FleetSize                  int
	UpdateInterval             time.Duration
	SampleInterval             time.Duration
	WindowCapacity             int
	LowBatteryThreshold        float64
	OnlineRetentionProbability float64
	InitialOnlineProbability   float64
	Latitude                   float64
	Longitude                  float64
	Seed                       int64

	// Servers
	Addr      string
	GRPCPort  int
	WSOrigins []string

	// Integrations
	DBPath         string
	MQTTBroker     string
	MQTTClientID   string
	MQTTTopicRoot  string
	TracingEnabled bool
	Debug          bool
}

// Load parses command line flags and environment variables to populate Config.
// Flags take precedence over environment variables.
func Load() *Config {
	return LoadFrom(flag.CommandLine, os.Args[1:])
}

// LoadFrom is Load over an explicit flag set and argument list.
func LoadFrom(fs *flag.FlagSet, args []string) *Config {
	cfg := &Config{}

	// Defaults and Environment Variables
	cfg.FleetSize = getEnvInt("FLEETDASH_FLEET_SIZE", 10)
	updateMs := getEnvInt("FLEETDASH_UPDATE_MS", 5000)
	sampleMs := getEnvInt("FLEETDASH_SAMPLE_MS", 15000)
	cfg.WindowCapacity = getEnvInt("FLEETDASH_WINDOW", 8)
	cfg.LowBatteryThreshold = getEnvFloat("FLEETDASH_LOW_BATTERY", 20)
	cfg.OnlineRetentionProbability = getEnvFloat("FLEETDASH_ONLINE_RETENTION", 0.9)
	cfg.InitialOnlineProbability = getEnvFloat("FLEETDASH_INITIAL_ONLINE", 0.8)
	cfg.Latitude = getEnvFloat("FLEETDASH_LAT", 40.4168)
	cfg.Longitude = getEnvFloat("FLEETDASH_LNG", -3.7038)
	cfg.Seed = int64(getEnvInt("FLEETDASH_SEED", 0))
	cfg.Addr = getEnv("FLEETDASH_ADDR", ":8080")
	cfg.GRPCPort = getEnvInt("FLEETDASH_GRPC", 9000)
	wsOrigins := getEnv("FLEETDASH_WS_ORIGINS", "")
	cfg.DBPath = getEnv("FLEETDASH_DB", ":memory:")
	cfg.MQTTBroker = getEnv("FLEETDASH_MQTT_BROKER", "")
	cfg.MQTTClientID = getEnv("FLEETDASH_MQTT_CLIENT_ID", "fleetdash")
	cfg.MQTTTopicRoot = getEnv("FLEETDASH_MQTT_TOPIC", "fleetdash")
	cfg.TracingEnabled = getEnvBool("FLEETDASH_TRACING", false)
	cfg.Debug = getEnvBool("FLEETDASH_DEBUG", false)

	// Command Line Flags (Override Env)
	fs.IntVar(&cfg.FleetSize, "robots", cfg.FleetSize, "Number of simulated robots")
	fs.IntVar(&updateMs, "update-ms", updateMs, "Fleet update period in milliseconds")
	fs.IntVar(&sampleMs, "sample-ms", sampleMs, "Time-series sampling period in milliseconds")
	fs.IntVar(&cfg.WindowCapacity, "window", cfg.WindowCapacity, "Number of samples kept in the rolling window")
	fs.Float64Var(&cfg.LowBatteryThreshold, "low-battery", cfg.LowBatteryThreshold, "Battery percentage under which a robot is low-battery")
	fs.Float64Var(&cfg.OnlineRetentionProbability, "online-retention", cfg.OnlineRetentionProbability, "Probability a robot is online after each update")
	fs.Float64Var(&cfg.InitialOnlineProbability, "initial-online", cfg.InitialOnlineProbability, "Probability a robot starts online")
	fs.Float64Var(&cfg.Latitude, "lat", cfg.Latitude, "Latitude of the fleet area center")
	fs.Float64Var(&cfg.Longitude, "lng", cfg.Longitude, "Longitude of the fleet area center")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 = time based)")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	fs.IntVar(&cfg.GRPCPort, "grpc", cfg.GRPCPort, "gRPC Server Port")
	fs.StringVar(&wsOrigins, "ws-origins", wsOrigins, "Comma separated extra WebSocket origins")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite DSN for the sample archive")
	fs.StringVar(&cfg.MQTTBroker, "mqtt", cfg.MQTTBroker, "MQTT broker URL (empty to disable)")
	fs.StringVar(&cfg.MQTTClientID, "mqtt-client-id", cfg.MQTTClientID, "MQTT client identifier")
	fs.StringVar(&cfg.MQTTTopicRoot, "mqtt-topic", cfg.MQTTTopicRoot, "MQTT topic prefix")
	fs.BoolVar(&cfg.TracingEnabled, "trace", cfg.TracingEnabled, "Print OpenTelemetry traces to stdout")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable verbose debug logging")

	fs.Parse(args)

	cfg.UpdateInterval = time.Duration(updateMs) * time.Millisecond
	cfg.SampleInterval = time.Duration(sampleMs) * time.Millisecond
	cfg.WSOrigins = splitList(wsOrigins)

	return cfg
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.FleetSize < 0 {
		errs = append(errs, fmt.Errorf("fleet size must not be negative, got %d", c.FleetSize))
	}
	if c.UpdateInterval <= 0 {
		errs = append(errs, fmt.Errorf("update period must be positive, got %s", c.UpdateInterval))
	}
	if c.SampleInterval <= 0 {
		errs = append(errs, fmt.Errorf("sampling period must be positive, got %s", c.SampleInterval))
	}
	if c.WindowCapacity <= 0 {
		errs = append(errs, fmt.Errorf("window capacity must be positive, got %d", c.WindowCapacity))
	}
	if c.LowBatteryThreshold < 0 || c.LowBatteryThreshold > 100 {
		errs = append(errs, fmt.Errorf("low battery threshold must be within [0,100], got %v", c.LowBatteryThreshold))
	}
	if !isProbability(c.OnlineRetentionProbability) {
		errs = append(errs, fmt.Errorf("online retention probability must be within [0,1], got %v", c.OnlineRetentionProbability))
	}
	if !isProbability(c.InitialOnlineProbability) {
		errs = append(errs, fmt.Errorf("initial online probability must be within [0,1], got %v", c.InitialOnlineProbability))
	}
	if c.GRPCPort < 0 || c.GRPCPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid gRPC port %d", c.GRPCPort))
	}
	return errors.Join(errs...)
}

func isProbability(p float64) bool {
	return p >= 0 && p <= 1
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
