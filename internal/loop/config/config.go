// Package config centralizes the tunable parameters of the terminal client.
package config

import "time"

// Field resolution - the play field in logical units.
// Actual rendering scales to fit terminal size.
const (
	FieldWidth  = 800
	FieldHeight = 600
)

// Max render resolution in terminal cells. Larger terminals get a centered,
// bordered render area.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 60
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Leaderboard
const (
	SubmitTimeout = 5 * time.Second
	TopScores     = 10 // Records shown after a submission

	MaxUsernameLength = 30
)

// Screens
const (
	// GameOverInputDelay ignores keys briefly after game over so a held fire
	// key does not skip the name prompt.
	GameOverInputDelay = 750 * time.Millisecond
	HealthBarHeight    = 4.0 // Logical pixels
	HealthBarGap       = 3.0
)
