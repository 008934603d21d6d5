// Package game runs one play session: it owns the player, invaders, bullets,
// upgrades and debris, and advances them in a fixed order once per tick.
package game

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/wave"
)

// DefaultField is the logical play field the game is tuned for.
var DefaultField = object.Field{Width: 800, Height: 600}

// UpgradeDropChance is the denominator of the per-kill upgrade roll.
const UpgradeDropChance = 10

// Debris burst thrown out by a destroyed invader.
const (
	debrisCount    = 10
	debrisSpeed    = 90.0
	debrisLifetime = 0.6
)

// Options configure a Session. Zero values fall back to defaults.
type Options struct {
	Field      object.Field
	Table      *wave.Table
	Rand       *rand.Rand
	Interval   time.Duration // Intermission between waves
	OnGameOver func(score int)
	Logger     *log.Logger
}

// Stats is a snapshot of the session for the HUD.
type Stats struct {
	Score        int
	Stage        int
	Tier         wave.Tier
	State        wave.State
	Intermission time.Duration // Time until the next wave may spawn
	Difficulty   object.Difficulty
	Invaders     int
	Upgrades     int
	Collected    int

	// Weapon
	Bullets      int
	Magazine     int
	Damage       int
	Penetration  int
	FireCooldown time.Duration
}

// Session is a single-player game from the first wave to game over. It is
// not safe for concurrent use; the loop that ticks it also renders it.
type Session struct {
	field      object.Field
	rng        *rand.Rand
	roll       func(n int) int
	waves      *wave.Controller
	onGameOver func(score int)
	logger     *log.Logger

	player   *object.Player
	invaders []*object.Invader
	upgrades []*object.Upgrade
	debris   []object.Entity
	toSpawn  []object.Entity // Debris spawned during the current tick

	score    int
	over     bool
	lastID   object.ID
	lastTick time.Time
}

// NewSession creates a session with the player at the bottom of the field
// and no wave spawned. The first wave spawns on the first Tick.
func NewSession(opts Options) *Session {
	if opts.Field.Width <= 0 || opts.Field.Height <= 0 {
		opts.Field = DefaultField
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Interval <= 0 {
		opts.Interval = wave.DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Session{
		field:      opts.Field,
		rng:        opts.Rand,
		roll:       opts.Rand.Intn,
		waves:      wave.NewController(opts.Table, opts.Interval),
		onGameOver: opts.OnGameOver,
		logger:     opts.Logger,
		player:     object.NewPlayer(opts.Field),
	}
}

// Spawn queues a cosmetic entity. Implements object.Spawner.
func (s *Session) Spawn(e object.Entity) {
	s.toSpawn = append(s.toSpawn, e)
}

func (s *Session) nextID() object.ID {
	s.lastID++
	return s.lastID
}

// Tick advances the session by one frame at now. After game over it does
// nothing.
func (s *Session) Tick(now time.Time, intent object.Intent) {
	if s.over {
		return
	}

	var delta time.Duration
	if !s.lastTick.IsZero() && now.After(s.lastTick) {
		delta = now.Sub(s.lastTick)
	}
	s.lastTick = now

	ctx := object.UpdateContext{
		Now:     now,
		Delta:   delta,
		Field:   s.field,
		Spawner: s,
	}

	s.player.SetIntent(intent)
	s.player.Update(ctx)

	s.updateInvaders(ctx)

	ctx.Targets = s.targets()
	s.updateBullets(ctx)
	s.updateUpgrades(ctx)
	s.updateDebris(ctx)

	s.checkGameOver()
}

// updateInvaders spawns the next wave when the field is empty, otherwise
// settles dead invaders and moves the rest.
func (s *Session) updateInvaders(ctx object.UpdateContext) {
	if len(s.invaders) == 0 {
		if s.waves.Ready(ctx.Now) {
			s.spawnWave()
		}
		return
	}

	kept := s.invaders[:0]
	for _, inv := range s.invaders {
		if inv.Expired() {
			s.settleKill(inv)
			continue
		}
		inv.Update(ctx)
		kept = append(kept, inv)
	}
	clear(s.invaders[len(kept):])
	s.invaders = kept

	if len(s.invaders) == 0 {
		s.waves.Cleared(ctx.Now)
		s.logger.Debug("wave cleared", "stage", s.waves.Stage(), "tier", s.waves.Tier(), "score", s.score)
	}
}

func (s *Session) spawnWave() {
	formation := s.waves.NextWave()
	s.invaders = append(s.invaders, formation.Spawn(s.field, s.waves.Difficulty(), s.nextID)...)
	s.logger.Debug("wave spawned", "stage", s.waves.Stage(), "tier", s.waves.Tier(), "invaders", len(s.invaders))
}

// settleKill scores a destroyed invader and rolls for an upgrade drop.
func (s *Session) settleKill(inv *object.Invader) {
	d := s.waves.Difficulty()
	s.score += inv.Reward(d)

	x, y := inv.Bounds().Center()
	object.SpawnExplosion(x, y, debrisCount, debrisSpeed, debrisLifetime, inv.Color, s.rng, s)

	if s.roll(UpgradeDropChance) != 0 || !s.waves.CanSpawnUpgrade(len(s.upgrades)) {
		return
	}
	effect := object.Effect(s.roll(int(object.NumEffects)))
	s.upgrades = append(s.upgrades, object.NewUpgrade(s.nextID(), x, y, effect, d.UpgradeHealth))
	s.logger.Debug("upgrade dropped", "effect", effect, "stage", s.waves.Stage())
}

// targets lists what bullets may hit this tick: invaders first, then upgrades.
func (s *Session) targets() []object.Target {
	targets := make([]object.Target, 0, len(s.invaders)+len(s.upgrades))
	for _, inv := range s.invaders {
		targets = append(targets, inv)
	}
	for _, u := range s.upgrades {
		targets = append(targets, u)
	}
	return targets
}

// updateBullets drops spent or escaped bullets before they move again.
func (s *Session) updateBullets(ctx object.UpdateContext) {
	bullets := s.player.Bullets
	kept := bullets[:0]
	for _, b := range bullets {
		if b.Expired() {
			continue
		}
		b.Update(ctx)
		kept = append(kept, b)
	}
	clear(bullets[len(kept):])
	s.player.Bullets = kept
}

// updateUpgrades applies activated upgrades once and discards the ones that
// fell off the field.
func (s *Session) updateUpgrades(ctx object.UpdateContext) {
	kept := s.upgrades[:0]
	for _, u := range s.upgrades {
		if u.Expired() {
			if u.Activated() {
				u.Apply(s.player)
				s.waves.Collect()
				s.logger.Debug("upgrade collected", "effect", u.Effect, "collected", s.waves.Collected())
			}
			continue
		}
		u.Update(ctx)
		kept = append(kept, u)
	}
	clear(s.upgrades[len(kept):])
	s.upgrades = kept
}

func (s *Session) updateDebris(ctx object.UpdateContext) {
	kept := s.debris[:0]
	for _, d := range s.debris {
		d.Update(ctx)
		if d.Expired() {
			if r, ok := d.(interface{ Release() }); ok {
				r.Release()
			}
			continue
		}
		kept = append(kept, d)
	}
	clear(s.debris[len(kept):])
	s.debris = append(kept, s.toSpawn...)
	clear(s.toSpawn)
	s.toSpawn = s.toSpawn[:0]
}

// checkGameOver ends the session once a live invader reaches the player's row.
func (s *Session) checkGameOver() {
	for _, inv := range s.invaders {
		if inv.Expired() {
			continue
		}
		if inv.Bounds().Bottom() >= s.player.Y {
			s.over = true
			s.logger.Info("game over", "score", s.score, "stage", s.waves.Stage(), "tier", s.waves.Tier())
			if s.onGameOver != nil {
				s.onGameOver(s.score)
			}
			return
		}
	}
}

// Over reports whether the session has ended.
func (s *Session) Over() bool {
	return s.over
}

// Score returns the current score.
func (s *Session) Score() int {
	return s.score
}

// LastTick returns the time of the most recent Tick.
func (s *Session) LastTick() time.Time {
	return s.lastTick
}

// Field returns the logical play field.
func (s *Session) Field() object.Field {
	return s.field
}

// Stats returns a snapshot for the HUD at now.
func (s *Session) Stats(now time.Time) Stats {
	p := s.player
	return Stats{
		Score:        s.score,
		Stage:        s.waves.Stage(),
		Tier:         s.waves.Tier(),
		State:        s.waves.State(),
		Intermission: s.waves.Remaining(now),
		Difficulty:   s.waves.Difficulty(),
		Invaders:     len(s.invaders),
		Upgrades:     len(s.upgrades),
		Collected:    s.waves.Collected(),
		Bullets:      len(p.Bullets),
		Magazine:     p.Magazine,
		Damage:       p.Damage,
		Penetration:  p.Penetration,
		FireCooldown: p.FireCooldown,
	}
}

// Visit calls fn for every entity in draw order: debris, invaders, upgrades,
// bullets, then the player. Expired entities waiting for removal are skipped.
func (s *Session) Visit(fn func(object.Renderable)) {
	for _, d := range s.debris {
		if r, ok := d.(object.Renderable); ok {
			fn(r)
		}
	}
	for _, inv := range s.invaders {
		if !inv.Expired() {
			fn(inv)
		}
	}
	for _, u := range s.upgrades {
		if !u.Expired() {
			fn(u)
		}
	}
	for _, b := range s.player.Bullets {
		if !b.Expired() {
			fn(b)
		}
	}
	fn(s.player)
}
