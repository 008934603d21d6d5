package object

import (
	"github.com/tomz197/invaders/internal/physics"
)

// Bullet dimensions and speed.
const (
	BulletWidth  = 5.0
	BulletHeight = 10.0
	BulletSpeed  = 7.0 // Pixels per tick, upward
)

// Bullet is a projectile fired by the player. It may pass through several
// targets but damages each one at most once.
type Bullet struct {
	X, Y      float64
	Damage    int
	Remaining int             // Targets this bullet may still hit
	hit       map[ID]struct{} // Targets already hit, kept for the bullet's lifetime
}

// NewBullet creates a bullet whose top edge is at y, centered on x.
func NewBullet(x, y float64, damage, maxHits int) *Bullet {
	return &Bullet{
		X:         x - BulletWidth/2,
		Y:         y,
		Damage:    damage,
		Remaining: maxHits,
		hit:       make(map[ID]struct{}, maxHits),
	}
}

// Update moves the bullet up and resolves hits against ctx.Targets.
func (b *Bullet) Update(ctx UpdateContext) {
	b.Y -= BulletSpeed
	b.Scan(ctx.Targets)
}

// Scan damages overlapping targets in order until the bullet is spent.
// Expired targets and targets this bullet already hit are skipped.
func (b *Bullet) Scan(targets []Target) {
	if b.Remaining <= 0 {
		return
	}
	bounds := b.Bounds()
	for _, t := range targets {
		if t.Expired() {
			continue
		}
		if _, seen := b.hit[t.ID()]; seen {
			continue
		}
		if !physics.Overlaps(bounds, t.Bounds()) {
			continue
		}
		t.ApplyDamage(b.Damage)
		b.hit[t.ID()] = struct{}{}
		b.Remaining--
		if b.Remaining == 0 {
			return
		}
	}
}

// HasHit reports whether the bullet has already damaged the target id.
func (b *Bullet) HasHit(id ID) bool {
	_, ok := b.hit[id]
	return ok
}

// Expired reports whether the bullet is spent or has left the top of the field.
func (b *Bullet) Expired() bool {
	return b.Remaining <= 0 || b.Y < 0
}

// Bounds returns the bullet's bounding box.
func (b *Bullet) Bounds() physics.Rect {
	return physics.Rect{X: b.X, Y: b.Y, W: BulletWidth, H: BulletHeight}
}

// Hint returns the render hint.
func (b *Bullet) Hint() Hint {
	return Hint{Kind: KindBullet}
}

// HealthRatio is always 1; bullets have no health.
func (b *Bullet) HealthRatio() float64 {
	return 1
}
