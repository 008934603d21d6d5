package object

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func tick(p *Player, now time.Time, in Intent) {
	p.SetIntent(in)
	p.Update(UpdateContext{Now: now, Field: testField})
}

func TestNewPlayerStartsBottomCenter(t *testing.T) {
	p := NewPlayer(testField)

	assert.Equal(t, 375.0, p.X)
	assert.Equal(t, 570.0, p.Y)
	assert.False(t, p.Expired())
}

func TestPlayerMovementIsClampedToField(t *testing.T) {
	p := NewPlayer(testField)

	for i := 0; i < 200; i++ {
		tick(p, t0, Intent{Right: true})
	}
	assert.Equal(t, testField.Width-PlayerWidth, p.X)

	for i := 0; i < 200; i++ {
		tick(p, t0, Intent{Left: true})
	}
	assert.Equal(t, 0.0, p.X)

	tick(p, t0, Intent{Right: true})
	assert.Equal(t, PlayerSpeed, p.X)
}

func TestPlayerFiresFromCenterOfShip(t *testing.T) {
	p := NewPlayer(testField)

	tick(p, t0, Intent{Fire: true})

	require.Len(t, p.Bullets, 1)
	b := p.Bullets[0]
	assert.Equal(t, p.X+PlayerWidth/2-BulletWidth/2, b.X)
	assert.Equal(t, p.Y, b.Y)
	assert.Equal(t, DefaultDamage, b.Damage)
	assert.Equal(t, DefaultPenetration, b.Remaining)
}

func TestPlayerFireCooldown(t *testing.T) {
	p := NewPlayer(testField)
	fire := Intent{Fire: true}

	tick(p, t0, fire)
	tick(p, t0.Add(100*time.Millisecond), fire)
	assert.Len(t, p.Bullets, 1, "cooldown not elapsed")

	tick(p, t0.Add(DefaultFireCooldown), fire)
	assert.Len(t, p.Bullets, 2, "cooldown elapsed exactly")
}

func TestPlayerMagazineLimit(t *testing.T) {
	p := NewPlayer(testField)
	now := t0
	for i := 0; i < DefaultMagazine+3; i++ {
		tick(p, now, Intent{Fire: true})
		now = now.Add(time.Second)
	}
	assert.Len(t, p.Bullets, DefaultMagazine)

	p.AddMagazine()
	tick(p, now, Intent{Fire: true})
	assert.Len(t, p.Bullets, DefaultMagazine+1)
}

func TestPlayerDoesNotFireWithoutIntent(t *testing.T) {
	p := NewPlayer(testField)
	tick(p, t0, Intent{Left: true})
	assert.Empty(t, p.Bullets)
}

func TestIncreaseFireRateApproachesMinimum(t *testing.T) {
	p := NewPlayer(testField)

	p.IncreaseFireRate()
	assert.InDelta(t, float64(124*time.Millisecond), float64(p.FireCooldown), float64(time.Microsecond))

	prev := p.FireCooldown
	for i := 0; i < 50; i++ {
		p.IncreaseFireRate()
		assert.LessOrEqual(t, p.FireCooldown, prev)
		assert.GreaterOrEqual(t, p.FireCooldown, MinFireCooldown)
		prev = p.FireCooldown
	}
	assert.InDelta(t, float64(MinFireCooldown), float64(p.FireCooldown), float64(10*time.Microsecond))
}

func TestPlayerWeaponUpgrades(t *testing.T) {
	p := NewPlayer(testField)

	p.AddPenetration()
	p.AddDamage()
	p.AddMagazine()

	assert.Equal(t, DefaultPenetration+1, p.Penetration)
	assert.Equal(t, DefaultDamage+DamageBonus, p.Damage)
	assert.Equal(t, DefaultMagazine+MagazineBonus, p.Magazine)
}
