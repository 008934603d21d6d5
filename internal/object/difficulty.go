package object

// Escalation applied once per stage.
const (
	InvaderSpeedFactor     = 1.25
	InvaderHealthFactor    = 2
	InvaderRewardFactor    = 2
	UpgradeHealthIncrement = 3
)

const (
	defaultInvaderSpeed    = 2.5
	defaultInvaderMaxSpeed = 4.0
	defaultUpgradeHealth   = 2
)

// Difficulty is the set of enemy stats in force for a stage. It is a value:
// Escalate returns a new Difficulty and never changes the receiver.
type Difficulty struct {
	InvaderSpeed    float64        // Pixels per tick
	InvaderMaxSpeed float64        // Cap for InvaderSpeed
	Health          [numColors]int // Base health per color
	Reward          [numColors]int // Score per color
	UpgradeHealth   int            // Hits an upgrade needs to activate
}

// DefaultDifficulty returns the stage 1 stats.
func DefaultDifficulty() Difficulty {
	return Difficulty{
		InvaderSpeed:    defaultInvaderSpeed,
		InvaderMaxSpeed: defaultInvaderMaxSpeed,
		Health:          [numColors]int{Green: 2, Yellow: 3, Red: 4},
		Reward:          [numColors]int{Green: 10, Yellow: 20, Red: 30},
		UpgradeHealth:   defaultUpgradeHealth,
	}
}

// Escalate returns the stats for the next stage: faster invaders up to the
// cap, doubled health and rewards, and sturdier upgrades.
func (d Difficulty) Escalate() Difficulty {
	next := d
	next.InvaderSpeed = min(d.InvaderSpeed*InvaderSpeedFactor, d.InvaderMaxSpeed)
	for c := range next.Health {
		next.Health[c] *= InvaderHealthFactor
		next.Reward[c] *= InvaderRewardFactor
	}
	next.UpgradeHealth += UpgradeHealthIncrement
	return next
}
