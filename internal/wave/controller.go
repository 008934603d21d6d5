package wave

import (
	"fmt"
	"time"

	"github.com/tomz197/invaders/internal/object"
)

// DefaultInterval is the intermission between clearing a wave and the next one.
const DefaultInterval = 5000 * time.Millisecond

// UpgradesPerStage caps live plus collected upgrades within one stage.
const UpgradesPerStage = 2

// Tier is the difficulty level within a stage, cycling 1, 2, 3. Zero means
// no wave has been spawned yet.
type Tier int

func (t Tier) index() int {
	if t < 1 {
		return 0
	}
	return int(t-1) % TiersPerStage
}

func (t Tier) String() string {
	return fmt.Sprintf("%d/%d", int(t), TiersPerStage)
}

// State is the controller's macro state.
type State int

const (
	StateIntermission State = iota // No invaders, waiting for the interval to pass
	StateActive                    // A wave is on the field
)

// Controller drives the wave/stage progression. It decides when the next
// wave may spawn, which formation it uses, and when enemy stats escalate.
type Controller struct {
	table      *Table
	interval   time.Duration
	state      State
	stage      int
	tier       Tier
	clearedAt  time.Time
	difficulty object.Difficulty
	collected  int // Upgrades collected this stage
}

// NewController creates a controller at stage 1 with no wave spawned. The
// first call to Ready returns true immediately.
func NewController(table *Table, interval time.Duration) *Controller {
	if table == nil {
		table = DefaultTable()
	}
	return &Controller{
		table:      table,
		interval:   interval,
		state:      StateIntermission,
		stage:      1,
		difficulty: object.DefaultDifficulty(),
	}
}

// Ready reports whether the next wave may spawn at now: the field is empty
// and more than the interval has passed since the last wave was cleared.
func (c *Controller) Ready(now time.Time) bool {
	return c.state == StateIntermission && now.Sub(c.clearedAt) > c.interval
}

// Remaining returns how long until the next wave may spawn, or zero.
func (c *Controller) Remaining(now time.Time) time.Duration {
	if c.state != StateIntermission {
		return 0
	}
	left := c.interval - now.Sub(c.clearedAt)
	if left < 0 {
		return 0
	}
	return left
}

// NextWave advances the tier and returns the formation to spawn. When the
// tier wraps from 3 to 1 the stage increments and enemy stats escalate once.
func (c *Controller) NextWave() Formation {
	switch {
	case c.tier == 0:
		c.tier = 1
	case int(c.tier) == TiersPerStage:
		c.tier = 1
		c.stage++
		c.difficulty = c.difficulty.Escalate()
		c.collected = 0
	default:
		c.tier++
	}
	c.state = StateActive
	return c.table.Formation(c.stage, c.tier)
}

// Cleared records that the last invader of the wave was removed at now.
func (c *Controller) Cleared(now time.Time) {
	c.state = StateIntermission
	c.clearedAt = now
}

// Collect counts an activated upgrade against the stage cap.
func (c *Controller) Collect() {
	c.collected++
}

// CanSpawnUpgrade reports whether another upgrade fits under the stage cap
// given the number of upgrades currently on the field.
func (c *Controller) CanSpawnUpgrade(live int) bool {
	return live+c.collected < UpgradesPerStage
}

// State returns the current macro state.
func (c *Controller) State() State {
	return c.state
}

// Stage returns the current stage, starting at 1.
func (c *Controller) Stage() int {
	return c.stage
}

// Tier returns the current tier, or 0 before the first wave.
func (c *Controller) Tier() Tier {
	return c.tier
}

// Difficulty returns the enemy stats in force.
func (c *Controller) Difficulty() object.Difficulty {
	return c.difficulty
}

// Collected returns the number of upgrades collected this stage.
func (c *Controller) Collected() int {
	return c.collected
}
