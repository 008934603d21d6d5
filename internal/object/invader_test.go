package object

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvaderUsesDifficulty(t *testing.T) {
	d := DefaultDifficulty()

	left := NewInvader(1, 0, 0, Left, Yellow, d)
	assert.Equal(t, -d.InvaderSpeed, left.Speed)
	assert.Equal(t, 3, left.Health)
	assert.Equal(t, 3, left.MaxHealth)

	right := NewInvader(2, 0, 0, Right, Red, d.Escalate())
	assert.Equal(t, d.Escalate().InvaderSpeed, right.Speed)
	assert.Equal(t, 8, right.Health)
}

func TestInvaderMovesSideways(t *testing.T) {
	inv := NewInvader(1, 100, 50, Right, Green, DefaultDifficulty())
	inv.Update(testCtx())

	assert.Equal(t, 102.5, inv.X)
	assert.Equal(t, 50.0, inv.Y)
}

func TestInvaderBouncesOffRightWall(t *testing.T) {
	inv := NewInvader(1, testField.Width-InvaderWidth-1, 50, Right, Green, DefaultDifficulty())
	inv.Update(testCtx())

	assert.Equal(t, testField.Width-InvaderWidth, inv.X)
	assert.Equal(t, -2.5, inv.Speed)
	assert.Equal(t, 50+InvaderHeight, inv.Y)

	inv.Update(testCtx())
	assert.Equal(t, testField.Width-InvaderWidth-2.5, inv.X)
	assert.Equal(t, 50+InvaderHeight, inv.Y, "no second drop after turning")
}

func TestInvaderBouncesOffLeftWall(t *testing.T) {
	inv := NewInvader(1, 1, 0, Left, Green, DefaultDifficulty())
	inv.Update(testCtx())

	assert.Equal(t, 0.0, inv.X)
	assert.Equal(t, 2.5, inv.Speed)
	assert.Equal(t, InvaderHeight, inv.Y)
}

func TestInvadersBounceIndependently(t *testing.T) {
	d := DefaultDifficulty()
	atWall := NewInvader(1, 1, 0, Left, Green, d)
	inMiddle := NewInvader(2, 300, 0, Left, Green, d)

	atWall.Update(testCtx())
	inMiddle.Update(testCtx())

	assert.Equal(t, InvaderHeight, atWall.Y)
	assert.Equal(t, 0.0, inMiddle.Y)
	assert.Equal(t, -2.5, inMiddle.Speed)
}

func TestInvaderDamageAndExpiry(t *testing.T) {
	inv := NewInvader(1, 0, 0, Right, Yellow, DefaultDifficulty())

	inv.ApplyDamage(1)
	assert.Equal(t, 2, inv.Health)
	assert.InDelta(t, 2.0/3.0, inv.HealthRatio(), 1e-9)
	assert.False(t, inv.Expired())

	inv.ApplyDamage(5)
	assert.True(t, inv.Expired())
	assert.Equal(t, 0.0, inv.HealthRatio())
}

func TestInvaderRewardFollowsDifficulty(t *testing.T) {
	d := DefaultDifficulty()
	inv := NewInvader(1, 0, 0, Right, Green, d)

	assert.Equal(t, 10, inv.Reward(d))
	assert.Equal(t, 20, inv.Reward(d.Escalate()))
}

func TestColorAndDirectionUnmarshal(t *testing.T) {
	var slot struct {
		Color     Color     `json:"color"`
		Direction Direction `json:"direction"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"color":"red","direction":"left"}`), &slot))
	assert.Equal(t, Red, slot.Color)
	assert.Equal(t, Left, slot.Direction)

	assert.Error(t, json.Unmarshal([]byte(`{"color":"blue"}`), &slot))
	assert.Error(t, json.Unmarshal([]byte(`{"direction":"up"}`), &slot))
	assert.Equal(t, "yellow", Yellow.String())
}
