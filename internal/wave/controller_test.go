package wave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/invaders/internal/object"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestFirstWaveIsReadyImmediately(t *testing.T) {
	c := NewController(nil, DefaultInterval)

	assert.Equal(t, StateIntermission, c.State())
	assert.True(t, c.Ready(t0))
	assert.Equal(t, Tier(0), c.Tier())
	assert.Equal(t, 1, c.Stage())
}

func TestNoWaveWhileActive(t *testing.T) {
	c := NewController(nil, DefaultInterval)
	c.NextWave()

	assert.Equal(t, StateActive, c.State())
	assert.False(t, c.Ready(t0.Add(time.Hour)))
	assert.Zero(t, c.Remaining(t0))
}

func TestIntermissionLastsAtLeastInterval(t *testing.T) {
	c := NewController(nil, DefaultInterval)
	c.NextWave()
	c.Cleared(t0)

	assert.False(t, c.Ready(t0))
	assert.False(t, c.Ready(t0.Add(DefaultInterval)))
	assert.Equal(t, time.Second, c.Remaining(t0.Add(4*time.Second)))
	assert.True(t, c.Ready(t0.Add(DefaultInterval+time.Millisecond)))
}

func TestTierCyclesAndStageAdvancesOncePerCycle(t *testing.T) {
	c := NewController(nil, DefaultInterval)

	type step struct {
		stage int
		tier  Tier
	}
	want := []step{{1, 1}, {1, 2}, {1, 3}, {2, 1}, {2, 2}, {2, 3}, {3, 1}}
	for i, w := range want {
		f := c.NextWave()
		c.Cleared(t0)
		assert.Equal(t, w.stage, c.Stage(), "wave %d", i+1)
		assert.Equal(t, w.tier, c.Tier(), "wave %d", i+1)
		assert.Equal(t, DefaultTable().Formation(w.stage, w.tier), f, "wave %d", i+1)
	}
}

func TestEscalationAppliesOncePerStage(t *testing.T) {
	c := NewController(nil, DefaultInterval)
	base := object.DefaultDifficulty()

	for i := 0; i < 3; i++ {
		c.NextWave()
		assert.Equal(t, base, c.Difficulty(), "stage 1 wave %d", i+1)
	}
	for i := 0; i < 3; i++ {
		c.NextWave()
		assert.Equal(t, base.Escalate(), c.Difficulty(), "stage 2 wave %d", i+1)
	}
	c.NextWave()
	assert.Equal(t, base.Escalate().Escalate(), c.Difficulty())
}

func TestUpgradeCapResetsOnStageAdvance(t *testing.T) {
	c := NewController(nil, DefaultInterval)
	c.NextWave()

	require.True(t, c.CanSpawnUpgrade(0))
	assert.True(t, c.CanSpawnUpgrade(1))
	assert.False(t, c.CanSpawnUpgrade(2))

	c.Collect()
	assert.True(t, c.CanSpawnUpgrade(0))
	assert.False(t, c.CanSpawnUpgrade(1))
	c.Collect()
	assert.False(t, c.CanSpawnUpgrade(0))

	c.NextWave()
	c.NextWave()
	assert.Equal(t, 2, c.Collected(), "tier changes keep the count")

	c.NextWave()
	assert.Equal(t, 2, c.Stage())
	assert.Zero(t, c.Collected())
	assert.True(t, c.CanSpawnUpgrade(1))
}
