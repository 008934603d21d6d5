package object

import (
	"time"

	"github.com/tomz197/invaders/internal/physics"
)

// Player ship defaults.
const (
	PlayerWidth         = 50.0
	PlayerHeight        = 20.0
	PlayerSpeed         = 7.0 // Pixels per tick
	PlayerBottomMargin  = 30.0
	DefaultMagazine     = 4
	DefaultDamage       = 1
	DefaultPenetration  = 2 // Targets per bullet
	DefaultFireCooldown = 150 * time.Millisecond
	MinFireCooldown     = 20 * time.Millisecond
)

// Upgrade effect sizes.
const (
	FireCooldownDecay = 0.8 // Share of the gap to MinFireCooldown kept per upgrade
	DamageBonus       = 2
	MagazineBonus     = 2
)

// Player is the ship at the bottom of the field. It owns its live bullets.
type Player struct {
	X, Y   float64
	Speed  float64
	intent Intent

	// Weapon
	Magazine     int           // Max live bullets
	Damage       int           // Damage per hit
	Penetration  int           // Targets a bullet may hit
	FireCooldown time.Duration // Minimum time between shots
	lastShot     time.Time
	Bullets      []*Bullet
}

// NewPlayer creates the ship at the bottom center of field f.
func NewPlayer(f Field) *Player {
	return &Player{
		X:            f.Width/2 - PlayerWidth/2,
		Y:            f.Height - PlayerBottomMargin,
		Speed:        PlayerSpeed,
		Magazine:     DefaultMagazine,
		Damage:       DefaultDamage,
		Penetration:  DefaultPenetration,
		FireCooldown: DefaultFireCooldown,
	}
}

// SetIntent records the input state used by the next Update.
func (p *Player) SetIntent(in Intent) {
	p.intent = in
}

// Update moves the ship within the field and fires when allowed.
func (p *Player) Update(ctx UpdateContext) {
	if p.intent.Right {
		p.X += p.Speed
	}
	if p.intent.Left {
		p.X -= p.Speed
	}
	p.X = physics.Clamp(p.X, 0, ctx.Field.Width-PlayerWidth)

	if p.intent.Fire && p.CanFire(ctx.Now) {
		p.Bullets = append(p.Bullets, NewBullet(p.X+PlayerWidth/2, p.Y, p.Damage, p.Penetration))
		p.lastShot = ctx.Now
	}
}

// CanFire reports whether the magazine has room and the cooldown has elapsed at now.
func (p *Player) CanFire(now time.Time) bool {
	return len(p.Bullets) < p.Magazine && now.Sub(p.lastShot) >= p.FireCooldown
}

// Expired is always false; the player lives for the whole session.
func (p *Player) Expired() bool {
	return false
}

// Bounds returns the ship's bounding box.
func (p *Player) Bounds() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, W: PlayerWidth, H: PlayerHeight}
}

// Hint returns the render hint.
func (p *Player) Hint() Hint {
	return Hint{Kind: KindPlayer}
}

// HealthRatio is always 1.
func (p *Player) HealthRatio() float64 {
	return 1
}

// IncreaseFireRate shrinks the cooldown towards MinFireCooldown without reaching it.
func (p *Player) IncreaseFireRate() {
	gap := float64(p.FireCooldown - MinFireCooldown)
	p.FireCooldown = time.Duration(gap*FireCooldownDecay) + MinFireCooldown
}

// AddPenetration lets each bullet hit one more target.
func (p *Player) AddPenetration() {
	p.Penetration++
}

// AddDamage increases damage per hit.
func (p *Player) AddDamage() {
	p.Damage += DamageBonus
}

// AddMagazine allows more bullets in flight.
func (p *Player) AddMagazine() {
	p.Magazine += MagazineBonus
}
