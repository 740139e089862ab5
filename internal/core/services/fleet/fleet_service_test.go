package fleet

import (
	"fmt"
	"sync"
	"testing"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/lcalzada-xor/fleetdash/internal/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerator hands out sequential IDs and drains the battery by 5 per tick.
type stubGenerator struct {
	mu      sync.Mutex
	next    int
	updates int
}

func (g *stubGenerator) GenerateRobot() domain.Robot {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return domain.NewRobot(fmt.Sprintf("robot-%d", g.next), domain.Telemetry{
		IsOnline:          true,
		BatteryPercentage: 50,
	}, domain.DefaultLowBatteryThreshold)
}

func (g *stubGenerator) UpdateRobot(r domain.Robot) domain.Robot {
	g.mu.Lock()
	g.updates++
	g.mu.Unlock()
	next := r
	next.Apply(domain.Telemetry{
		IsOnline:          r.IsOnline,
		BatteryPercentage: r.BatteryPercentage - 5,
	}, domain.DefaultLowBatteryThreshold)
	return next
}

func TestNewFleetService_InitialFleet(t *testing.T) {
	svc := NewFleetService(&stubGenerator{}, DefaultFleetSize)
	snap := svc.Snapshot()

	require.Len(t, snap.Robots, 10)
	assert.Equal(t, uint64(1), snap.Version)
	for _, r := range snap.Robots {
		assert.Equal(t, domain.StatusOnline, r.Status)
	}
}

func TestTick_UpdatesEveryRobot(t *testing.T) {
	gen := &stubGenerator{}
	svc := NewFleetService(gen, 4)

	snap := svc.Tick()
	assert.Equal(t, uint64(2), snap.Version)
	assert.Equal(t, 4, gen.updates)
	for _, r := range snap.Robots {
		assert.Equal(t, 45.0, r.BatteryPercentage)
	}
}

func TestTick_StatusFollowsBattery(t *testing.T) {
	svc := NewFleetService(&stubGenerator{}, 2)

	var snap domain.Snapshot
	for i := 0; i < 7; i++ { // 50 - 35 = 15
		snap = svc.Tick()
	}
	for _, r := range snap.Robots {
		assert.Equal(t, 15.0, r.BatteryPercentage)
		assert.Equal(t, domain.StatusLowBattery, r.Status)
	}
}

func TestTick_CardinalityAndIdentityInvariant(t *testing.T) {
	cfg := mock.DefaultGeneratorConfig(0, 0)
	cfg.Seed = 5
	svc := NewFleetService(mock.NewDataGenerator(cfg), 10)

	initial := svc.Snapshot()
	for i := 0; i < 200; i++ {
		snap := svc.Tick()
		require.Len(t, snap.Robots, 10)
		for j, r := range snap.Robots {
			assert.Equal(t, initial.Robots[j].ID, r.ID, "order and identity must be stable")
			assert.True(t, domain.IsValidPercentage(r.BatteryPercentage))
			assert.True(t, domain.IsValidPercentage(r.CPUUsage))
			assert.True(t, domain.IsValidPercentage(r.RAMUsage))
			assert.Equal(t, domain.Classify(r.IsOnline, r.BatteryPercentage), r.Status)
		}
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	svc := NewFleetService(&stubGenerator{}, 3)
	snap := svc.Snapshot()
	snap.Robots[0].Status = domain.StatusOffline

	again := svc.Snapshot()
	assert.Equal(t, domain.StatusOnline, again.Robots[0].Status)
}

func TestRobot_Lookup(t *testing.T) {
	svc := NewFleetService(&stubGenerator{}, 3)

	r, err := svc.Robot("robot-2")
	require.NoError(t, err)
	assert.Equal(t, "robot-2", r.ID)

	_, err = svc.Robot("nope")
	assert.ErrorIs(t, err, domain.ErrRobotNotFound)
}

func TestEmptyFleet(t *testing.T) {
	svc := NewFleetService(&stubGenerator{}, 0)
	snap := svc.Tick()
	assert.Empty(t, snap.Robots)
	assert.Equal(t, 0, svc.Size())
}

func TestConcurrentReadersDuringTicks(t *testing.T) {
	svc := NewFleetService(&stubGenerator{}, 10)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snap := svc.Snapshot()
				assert.Len(t, snap.Robots, 10)
				// a snapshot is never half updated
				first := snap.Robots[0].BatteryPercentage
				for _, r := range snap.Robots {
					assert.Equal(t, first, r.BatteryPercentage)
				}
			}
		}()
	}
	for j := 0; j < 9; j++ {
		svc.Tick()
	}
	wg.Wait()
}
