package object

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/invaders/internal/physics"
)

// DebrisSize is the side of a debris fragment in logical pixels.
const DebrisSize = 4.0

// debrisPool is a sync.Pool for reusing Debris objects to reduce allocations.
var debrisPool = sync.Pool{
	New: func() any {
		return &Debris{}
	},
}

// Debris is a short-lived fragment thrown out when an invader is destroyed.
// It never collides with anything.
type Debris struct {
	X, Y        float64 // Position
	VX, VY      float64 // Velocity in pixels per second
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity decay (1.0 = no drag)
	Color       Color   // Color of the invader it came from
}

// NewDebris creates a single fragment from the pool.
func NewDebris(x, y, vx, vy, lifetime float64, color Color) *Debris {
	d := debrisPool.Get().(*Debris)
	d.X = x
	d.Y = y
	d.VX = vx
	d.VY = vy
	d.Lifetime = lifetime
	d.MaxLifetime = lifetime
	d.Drag = 0.95
	d.Color = color
	return d
}

// Release returns the fragment to the pool for reuse.
// Should be called when the fragment is removed from the game.
func (d *Debris) Release() {
	debrisPool.Put(d)
}

// SpawnExplosion throws count fragments out of (x, y) in a circular burst.
func SpawnExplosion(x, y float64, count int, speed, lifetime float64, color Color, rng *rand.Rand, spawner Spawner) {
	if spawner == nil || rng == nil {
		return
	}
	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		// Random speed variation (50% to 150%)
		spd := speed * (0.5 + rng.Float64())
		// Random lifetime variation (50% to 100%)
		life := lifetime * (0.5 + rng.Float64()*0.5)

		spawner.Spawn(NewDebris(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life, color))
	}
}

// Update moves the fragment and burns its lifetime.
func (d *Debris) Update(ctx UpdateContext) {
	dt := ctx.Delta.Seconds()
	d.Lifetime -= dt

	dragFactor := math.Pow(d.Drag, dt*60) // Normalize drag to ~60fps
	d.VX *= dragFactor
	d.VY *= dragFactor

	d.X += d.VX * dt
	d.Y += d.VY * dt
}

// Expired reports whether the fragment has burned out.
func (d *Debris) Expired() bool {
	return d.Lifetime <= 0
}

// Faded reports whether the fragment is in the last quarter of its life
// and should no longer be drawn.
func (d *Debris) Faded() bool {
	return d.MaxLifetime > 0 && d.Lifetime/d.MaxLifetime < 0.25
}

// Bounds returns the fragment's bounding box.
func (d *Debris) Bounds() physics.Rect {
	return physics.CenteredAt(d.X, d.Y, DebrisSize, DebrisSize)
}

// Hint returns the render hint.
func (d *Debris) Hint() Hint {
	return Hint{Kind: KindDebris, Color: d.Color}
}

// HealthRatio returns the remaining share of the fragment's lifetime.
func (d *Debris) HealthRatio() float64 {
	if d.MaxLifetime <= 0 {
		return 0
	}
	return physics.Clamp(d.Lifetime/d.MaxLifetime, 0, 1)
}
