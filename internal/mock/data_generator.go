package mock

import (
	"time"

	"github.com/google/uuid"
	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/lcalzada-xor/fleetdash/internal/core/ports"
	"github.com/lcalzada-xor/fleetdash/internal/geo"
)

// Generator defaults
const (
	DefaultInitialOnlineProbability   = 0.8
	DefaultOnlineRetentionProbability = 0.9
	DefaultBatteryVariation           = 10.0
)

// GeneratorConfig tunes the synthetic fleet.
type GeneratorConfig struct {
	InitialOnlineProbability   float64
	OnlineRetentionProbability float64
	BatteryVariation           float64
	LowBatteryThreshold        float64
	Area                       geo.Area
	Seed                       int64
}

// DefaultGeneratorConfig returns the stock configuration centered on lat/lng.
func DefaultGeneratorConfig(lat, lng float64) GeneratorConfig {
	return GeneratorConfig{
		InitialOnlineProbability:   DefaultInitialOnlineProbability,
		OnlineRetentionProbability: DefaultOnlineRetentionProbability,
		BatteryVariation:           DefaultBatteryVariation,
		LowBatteryThreshold:        domain.DefaultLowBatteryThreshold,
		Area:                       geo.DefaultArea(lat, lng),
	}
}

// DataGenerator generates mock robot telemetry.
type DataGenerator struct {
	cfg       GeneratorConfig
	rand      *Random
	locations *geo.RandomProvider
	now       func() time.Time
	newID     func() string
}

// NewDataGenerator creates a new mock data generator
func NewDataGenerator(cfg GeneratorConfig) *DataGenerator {
	r := NewRandom(cfg.Seed)
	return &DataGenerator{
		cfg:       cfg,
		rand:      r,
		locations: geo.NewRandomProvider(cfg.Area, r),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// GenerateRobot creates a mock robot.
func (g *DataGenerator) GenerateRobot() domain.Robot {
	return domain.NewRobot(g.newID(), domain.Telemetry{
		IsOnline:          g.rand.Boolean(g.cfg.InitialOnlineProbability),
		BatteryPercentage: g.rand.Number(0, 100),
		CPUUsage:          g.rand.Number(0, 100),
		RAMUsage:          g.rand.Number(0, 100),
		Location:          g.locations.GetLocation(),
		At:                g.now(),
	}, g.cfg.LowBatteryThreshold)
}

// GenerateFleet creates n mock robots.
func (g *DataGenerator) GenerateFleet(n int) []domain.Robot {
	robots := make([]domain.Robot, 0, n)
	for i := 0; i < n; i++ {
		robots = append(robots, g.GenerateRobot())
	}
	return robots
}

// UpdateRobot simulates one tick of activity for r.
// Connectivity is redrawn independently of its previous value; battery and
// location walk from their previous values; CPU and RAM are redrawn.
func (g *DataGenerator) UpdateRobot(r domain.Robot) domain.Robot {
	next := r
	next.Apply(domain.Telemetry{
		IsOnline:          g.rand.Boolean(g.cfg.OnlineRetentionProbability),
		BatteryPercentage: g.rand.Variation(r.BatteryPercentage, g.cfg.BatteryVariation),
		CPUUsage:          g.rand.Number(0, 100),
		RAMUsage:          g.rand.Number(0, 100),
		Location:          g.locations.Drift(r.Location),
		At:                g.now(),
	}, g.cfg.LowBatteryThreshold)
	return next
}

var _ ports.RobotGenerator = (*DataGenerator)(nil)
