package handlers

import (
	"net/http"

	"github.com/lcalzada-xor/fleetdash/internal/config"
)

// ConfigHandler exposes the active simulation constants
type ConfigHandler struct {
	Config *config.Config
}

// NewConfigHandler creates a new ConfigHandler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{
		Config: cfg,
	}
}

// HandleGetConfig returns current configuration
func (h *ConfigHandler) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	c := h.Config
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"fleetSize":                  c.FleetSize,
		"updateIntervalMs":           c.UpdateInterval.Milliseconds(),
		"sampleIntervalMs":           c.SampleInterval.Milliseconds(),
		"windowCapacity":             c.WindowCapacity,
		"lowBatteryThreshold":        c.LowBatteryThreshold,
		"onlineRetentionProbability": c.OnlineRetentionProbability,
		"initialOnlineProbability":   c.InitialOnlineProbability,
		"center": map[string]float64{
			"lat": c.Latitude,
			"lng": c.Longitude,
		},
		"archiveEnabled": c.DBPath != "",
		"mqttEnabled":    c.MQTTBroker != "",
	})
}
