package object

import (
	"fmt"

	"github.com/tomz197/invaders/internal/physics"
)

// Upgrade dimensions and fall speed.
const (
	UpgradeWidth  = 34.0
	UpgradeHeight = 46.0
	UpgradeSpeed  = 1.0 // Pixels per tick, downward
)

// Effect is the weapon improvement an upgrade grants when activated.
type Effect int

const (
	EffectFireRate Effect = iota
	EffectPenetration
	EffectDamage
	EffectMagazine
	NumEffects
)

func (e Effect) String() string {
	switch e {
	case EffectFireRate:
		return "fire rate"
	case EffectPenetration:
		return "penetration"
	case EffectDamage:
		return "damage"
	case EffectMagazine:
		return "magazine"
	}
	return fmt.Sprintf("Effect(%d)", int(e))
}

// Upgrade is a falling power-up. Shooting it enough times activates it;
// letting it fall off the field discards it.
type Upgrade struct {
	X, Y      float64
	Effect    Effect
	Health    int
	MaxHealth int
	id        ID
	fellOff   bool
}

// NewUpgrade creates an upgrade centered on (x, y) that needs health hits to activate.
func NewUpgrade(id ID, x, y float64, effect Effect, health int) *Upgrade {
	r := physics.CenteredAt(x, y, UpgradeWidth, UpgradeHeight)
	return &Upgrade{
		X:         r.X,
		Y:         r.Y,
		Effect:    effect,
		Health:    health,
		MaxHealth: health,
		id:        id,
	}
}

// ID returns the upgrade's identity.
func (u *Upgrade) ID() ID {
	return u.id
}

// Update moves the upgrade down.
func (u *Upgrade) Update(ctx UpdateContext) {
	u.Y += UpgradeSpeed
	if u.Y > ctx.Field.Height {
		u.fellOff = true
	}
}

// Activated reports whether the upgrade has taken enough hits.
func (u *Upgrade) Activated() bool {
	return u.Health <= 0
}

// Expired reports whether the upgrade was activated or fell past the bottom edge.
// Only an activated upgrade applies its effect.
func (u *Upgrade) Expired() bool {
	return u.Activated() || u.fellOff
}

// ApplyDamage subtracts n from the upgrade's remaining hits.
func (u *Upgrade) ApplyDamage(n int) {
	u.Health -= n
}

// Apply grants the upgrade's effect to p.
func (u *Upgrade) Apply(p *Player) {
	switch u.Effect {
	case EffectFireRate:
		p.IncreaseFireRate()
	case EffectPenetration:
		p.AddPenetration()
	case EffectDamage:
		p.AddDamage()
	case EffectMagazine:
		p.AddMagazine()
	}
}

// Bounds returns the upgrade's bounding box.
func (u *Upgrade) Bounds() physics.Rect {
	return physics.Rect{X: u.X, Y: u.Y, W: UpgradeWidth, H: UpgradeHeight}
}

// Hint returns the render hint.
func (u *Upgrade) Hint() Hint {
	return Hint{Kind: KindUpgrade, Effect: u.Effect}
}

// HealthRatio returns the share of hits still needed.
func (u *Upgrade) HealthRatio() float64 {
	return healthRatio(u.Health, u.MaxHealth)
}
