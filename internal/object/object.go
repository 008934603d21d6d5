// Package object holds the entities of the simulation: the player ship,
// invaders, bullets, upgrades and cosmetic debris.
package object

import (
	"time"

	"github.com/tomz197/invaders/internal/physics"
)

// ID identifies a damageable entity for the lifetime of a session.
type ID uint64

// Field is the size of the play field in logical pixels.
type Field struct {
	Width  float64
	Height float64
}

// Intent is the sampled input state the player acts on each tick.
type Intent struct {
	Left  bool
	Right bool
	Fire  bool
}

// Spawner accepts entities created during an update. Spawned entities
// join their collection after the current pass.
type Spawner interface {
	Spawn(e Entity)
}

// UpdateContext provides all the information an entity needs during update.
type UpdateContext struct {
	Now     time.Time
	Delta   time.Duration
	Field   Field
	Targets []Target // Bullet scan order: invaders first, then upgrades
	Spawner Spawner
}

// Entity is a simulated object. Update advances it by exactly one tick and
// must be called at most once per frame.
type Entity interface {
	Update(ctx UpdateContext)
	// Expired reports whether the entity should be removed from its collection.
	Expired() bool
	Bounds() physics.Rect
}

// Target is an entity that bullets can damage.
type Target interface {
	Entity
	ID() ID
	ApplyDamage(n int)
}

// Kind is the render role of an entity.
type Kind int

const (
	KindPlayer Kind = iota
	KindInvader
	KindBullet
	KindUpgrade
	KindDebris
)

// Hint tells a renderer how to draw an entity.
type Hint struct {
	Kind   Kind
	Color  Color  // Invaders only
	Effect Effect // Upgrades only
}

// Renderable is the read-only view a renderer gets of an entity.
type Renderable interface {
	Bounds() physics.Rect
	Hint() Hint
	// HealthRatio is current/max health in [0, 1]; 1 for entities without health.
	HealthRatio() float64
}

// healthRatio clamps health/max into [0, 1].
func healthRatio(health, max int) float64 {
	if max <= 0 || health <= 0 {
		return 0
	}
	if health >= max {
		return 1
	}
	return float64(health) / float64(max)
}
