package object

import (
	"fmt"

	"github.com/tomz197/invaders/internal/physics"
)

// Invader dimensions in logical pixels. InvaderHeight is also the row height
// an invader drops by when it bounces off a wall.
const (
	InvaderWidth  = 40.0
	InvaderHeight = 32.0
)

// Color is the invader tier; it selects base health, speed and reward.
type Color int

const (
	Green Color = iota
	Yellow
	Red
	numColors
)

var colorNames = [numColors]string{Green: "green", Yellow: "yellow", Red: "red"}

func (c Color) String() string {
	if c < 0 || c >= numColors {
		return fmt.Sprintf("Color(%d)", int(c))
	}
	return colorNames[c]
}

// UnmarshalText parses "green", "yellow" or "red".
func (c *Color) UnmarshalText(text []byte) error {
	for i, name := range colorNames {
		if string(text) == name {
			*c = Color(i)
			return nil
		}
	}
	return fmt.Errorf("unknown invader color %q", text)
}

// Direction is the initial horizontal heading of an invader.
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

// UnmarshalText parses "left" or "right".
func (d *Direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "left":
		*d = Left
	case "right":
		*d = Right
	default:
		return fmt.Errorf("unknown direction %q", text)
	}
	return nil
}

// Invader is an enemy ship sweeping across the field.
type Invader struct {
	X, Y      float64
	Speed     float64 // Signed pixels per tick, sign is the heading
	Color     Color
	Health    int
	MaxHealth int
	id        ID
}

// NewInvader creates an invader at (x, y) using the stats in d.
func NewInvader(id ID, x, y float64, dir Direction, color Color, d Difficulty) *Invader {
	return &Invader{
		X:         x,
		Y:         y,
		Speed:     float64(dir) * d.InvaderSpeed,
		Color:     color,
		Health:    d.Health[color],
		MaxHealth: d.Health[color],
		id:        id,
	}
}

// ID returns the invader's identity.
func (inv *Invader) ID() ID {
	return inv.id
}

// Update moves the invader sideways. At a wall it is clamped to the wall,
// turns around and drops one row. Each invader bounces on its own.
func (inv *Invader) Update(ctx UpdateContext) {
	inv.X += inv.Speed

	maxX := ctx.Field.Width - InvaderWidth
	switch {
	case inv.X < 0:
		inv.X = 0
	case inv.X > maxX:
		inv.X = maxX
	default:
		return
	}
	inv.Speed = -inv.Speed
	inv.Y += InvaderHeight
}

// Expired reports whether the invader has been destroyed.
func (inv *Invader) Expired() bool {
	return inv.Health <= 0
}

// ApplyDamage subtracts n from the invader's health.
func (inv *Invader) ApplyDamage(n int) {
	inv.Health -= n
}

// Reward returns the score for destroying this invader under d.
func (inv *Invader) Reward(d Difficulty) int {
	return d.Reward[inv.Color]
}

// Bounds returns the invader's bounding box.
func (inv *Invader) Bounds() physics.Rect {
	return physics.Rect{X: inv.X, Y: inv.Y, W: InvaderWidth, H: InvaderHeight}
}

// Hint returns the render hint.
func (inv *Invader) Hint() Hint {
	return Hint{Kind: KindInvader, Color: inv.Color}
}

// HealthRatio returns the remaining share of the invader's health.
func (inv *Invader) HealthRatio() float64 {
	return healthRatio(inv.Health, inv.MaxHealth)
}
