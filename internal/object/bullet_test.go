package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testField = Field{Width: 800, Height: 600}

func testCtx(targets ...Target) UpdateContext {
	return UpdateContext{Field: testField, Targets: targets}
}

func TestBulletDamagesOverlappingInvaderOnce(t *testing.T) {
	inv := NewInvader(1, 100, 100, Right, Green, DefaultDifficulty())
	require.Equal(t, 2, inv.Health)

	// Already overlapping the invader and still overlapping after one step up.
	b := NewBullet(120, 110, 1, 1)
	b.Update(testCtx(inv))

	assert.Equal(t, 1, inv.Health)
	assert.False(t, inv.Expired(), "invader should survive one hit")
	assert.Equal(t, 0, b.Remaining)
	assert.True(t, b.Expired(), "spent bullet should expire")
	assert.True(t, b.HasHit(inv.ID()))
}

func TestBulletStopsAtPenetrationBudget(t *testing.T) {
	d := DefaultDifficulty()
	a := NewInvader(1, 100, 100, Right, Red, d)
	b := NewInvader(2, 100, 100, Right, Red, d)
	c := NewInvader(3, 100, 100, Right, Red, d)

	bullet := NewBullet(120, 110, 1, 2)
	bullet.Update(testCtx(a, b, c))

	assert.Equal(t, 3, a.Health)
	assert.Equal(t, 3, b.Health)
	assert.Equal(t, 4, c.Health, "third target is beyond the budget")
	assert.Equal(t, 0, bullet.Remaining)
	assert.False(t, bullet.HasHit(c.ID()))
}

func TestBulletNeverHitsSameTargetTwice(t *testing.T) {
	inv := NewInvader(7, 100, 60, Right, Green, DefaultDifficulty())
	inv.Health = 10

	bullet := NewBullet(120, 85, 1, 3)
	for i := 0; i < 3; i++ {
		bullet.Update(testCtx(inv))
	}

	assert.Equal(t, 9, inv.Health)
	assert.Equal(t, 2, bullet.Remaining)
	assert.False(t, bullet.Expired())
}

func TestBulletHitsInvadersBeforeUpgrades(t *testing.T) {
	inv := NewInvader(1, 100, 100, Right, Green, DefaultDifficulty())
	upg := NewUpgrade(2, 120, 110, EffectDamage, 2)

	bullet := NewBullet(120, 110, 1, 1)
	bullet.Update(testCtx(inv, upg))

	assert.Equal(t, 1, inv.Health)
	assert.Equal(t, 2, upg.Health)
}

func TestBulletSkipsExpiredTargets(t *testing.T) {
	dead := NewInvader(1, 100, 100, Right, Green, DefaultDifficulty())
	dead.Health = 0
	alive := NewInvader(2, 100, 100, Right, Green, DefaultDifficulty())

	bullet := NewBullet(120, 110, 1, 1)
	bullet.Update(testCtx(dead, alive))

	assert.Equal(t, 0, dead.Health)
	assert.Equal(t, 1, alive.Health)
	assert.False(t, bullet.HasHit(dead.ID()))
}

func TestSpentBulletDoesNotScan(t *testing.T) {
	inv := NewInvader(1, 100, 100, Right, Green, DefaultDifficulty())
	bullet := NewBullet(120, 110, 1, 0)

	bullet.Scan([]Target{inv})

	assert.Equal(t, 2, inv.Health)
	assert.True(t, bullet.Expired())
}

func TestBulletMissesTouchingTarget(t *testing.T) {
	inv := NewInvader(1, 100, 100, Right, Green, DefaultDifficulty())
	// Left edge of the bullet sits exactly on the invader's right edge.
	bullet := NewBullet(140+BulletWidth/2, 110, 1, 1)

	bullet.Scan([]Target{inv})

	assert.Equal(t, 2, inv.Health)
	assert.Equal(t, 1, bullet.Remaining)
}

func TestBulletExpiresAboveField(t *testing.T) {
	bullet := NewBullet(400, 3, 1, 2)
	require.False(t, bullet.Expired())

	bullet.Update(testCtx())

	assert.Less(t, bullet.Y, 0.0)
	assert.True(t, bullet.Expired())
}
