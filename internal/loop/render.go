package loop

import (
	"fmt"
	"time"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
	"github.com/tomz197/invaders/internal/wave"
)

// invaderLook maps an invader color to its palette entry and fill pattern,
// so the tiers stay distinguishable on terminals without color.
var invaderLook = map[object.Color]struct {
	color   draw.Color
	pattern draw.Pattern
}{
	object.Green:  {draw.ColorGreen, draw.PatternSolid},
	object.Yellow: {draw.ColorYellow, draw.PatternChecker},
	object.Red:    {draw.ColorRed, draw.PatternRows},
}

var upgradeLook = map[object.Effect]struct {
	color draw.Color
	label string
}{
	object.EffectFireRate:    {draw.ColorOrange, "F"},
	object.EffectPenetration: {draw.ColorMagenta, "P"},
	object.EffectDamage:      {draw.ColorRed, "D"},
	object.EffectMagazine:    {draw.ColorBlue, "M"},
}

// drawFrame draws the current frame. The canvas skips empty cells, so every
// frame starts from a cleared terminal.
func (c *Client) drawFrame(now time.Time) error {
	c.chunkWriter.ClearScreen()

	c.canvas.Clear()
	var labels []func()
	if c.session != nil && c.state.GameState != GameStateStart {
		labels = c.drawSession()
		c.drawGround()
	}
	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)
	for _, label := range labels {
		label()
	}

	c.drawUI(now)

	return c.chunkWriter.Flush()
}

// drawSession paints every entity of the session onto the canvas and returns
// the text overlays to draw on top of it.
func (c *Client) drawSession() (labels []func()) {
	c.session.Visit(func(r object.Renderable) {
		bounds := r.Bounds()
		hint := r.Hint()

		switch hint.Kind {
		case object.KindPlayer:
			c.drawPlayer(bounds)
		case object.KindInvader:
			look := invaderLook[hint.Color]
			c.canvas.FillRect(bounds, look.color, look.pattern)
			c.drawHealthBar(bounds, r.HealthRatio(), look.color)
		case object.KindBullet:
			c.canvas.FillRect(bounds, draw.ColorWhite, draw.PatternSolid)
		case object.KindUpgrade:
			look := upgradeLook[hint.Effect]
			c.canvas.FillRect(bounds, look.color, draw.PatternFrame)
			c.drawHealthBar(bounds, r.HealthRatio(), look.color)
			x, y := bounds.Center()
			labels = append(labels, func() {
				col, row := c.canvas.LogicalToTerminal(x, y)
				c.chunkWriter.WriteAt(col, row, look.label)
			})
		case object.KindDebris:
			if f, ok := r.(interface{ Faded() bool }); ok && f.Faded() {
				return
			}
			c.canvas.FillRect(bounds, invaderLook[hint.Color].color, draw.PatternSolid)
		}
	})
	return labels
}

// drawGround draws the floor under the cannon.
func (c *Client) drawGround() {
	y := float64(config.FieldHeight - 1)
	c.canvas.DrawLine(draw.Point{X: 0, Y: y}, draw.Point{X: config.FieldWidth - 1, Y: y}, draw.ColorGray)
}

// drawPlayer draws the ship as a wide base with a cannon on top.
func (c *Client) drawPlayer(b physics.Rect) {
	base := physics.Rect{X: b.X, Y: b.Y + b.H/2, W: b.W, H: b.H / 2}
	cannon := physics.Rect{X: b.X + b.W*0.4, Y: b.Y, W: b.W * 0.2, H: b.H / 2}
	c.canvas.FillRect(base, draw.ColorCyan, draw.PatternSolid)
	c.canvas.FillRect(cannon, draw.ColorCyan, draw.PatternSolid)
}

// drawHealthBar draws a bar above damaged entities.
func (c *Client) drawHealthBar(b physics.Rect, ratio float64, color draw.Color) {
	if ratio >= 1 {
		return
	}
	y := b.Y - config.HealthBarGap - config.HealthBarHeight
	c.canvas.FillRect(physics.Rect{X: b.X, Y: y, W: b.W, H: config.HealthBarHeight}, draw.ColorGray, draw.PatternSolid)
	if ratio > 0 {
		c.canvas.FillRect(physics.Rect{X: b.X, Y: y, W: b.W * ratio, H: config.HealthBarHeight}, color, draw.PatternSolid)
	}
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(now time.Time) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY, now)
		return
	}

	switch c.state.GameState {
	case GameStateStart:
		c.drawStartScreen(centerX, centerY, now)
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight, now)
	case GameStateGameOver:
		c.drawGameOverScreen(centerX, centerY, now)
	case GameStateSubmitting:
		c.drawSubmittingScreen(centerX, centerY, now)
	case GameStateResults:
		c.drawResultsScreen(centerX, centerY)
	}
}

// drawPlayingHUD draws score and stage on the top row and weapon stats on
// the bottom row.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, now time.Time) {
	cw := c.chunkWriter
	stats := c.session.Stats(now)

	cw.WriteAt(2, 1, fmt.Sprintf("Score: %-8d", stats.Score))
	stage := fmt.Sprintf("Stage %d  Wave %s", stats.Stage, stats.Tier)
	cw.WriteAt(termWidth-len(stage)-1, 1, stage)

	weapon := fmt.Sprintf("DMG %d  PEN %d  AMMO %d/%d  CD %dms",
		stats.Damage, stats.Penetration, stats.Magazine-stats.Bullets, stats.Magazine,
		stats.FireCooldown.Milliseconds())
	cw.WriteAt(2, termHeight, weapon)

	if stats.State == wave.StateIntermission && stats.Intermission > 0 && stats.Tier > 0 {
		msg := fmt.Sprintf("Next wave in %.1fs", stats.Intermission.Seconds())
		cw.WriteAt(termWidth/2-len(msg)/2, termHeight/2, msg)
	}
}
