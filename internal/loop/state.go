package loop

import (
	"time"

	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/leaderboard"
)

// GameState represents the current screen of a client.
type GameState int

const (
	GameStateStart      GameState = iota // Title screen
	GameStatePlaying                     // Active gameplay
	GameStateGameOver                    // Final score and name entry
	GameStateSubmitting                  // Waiting for the leaderboard
	GameStateResults                     // Submission outcome and top scores
)

func (s GameState) String() string {
	switch s {
	case GameStateStart:
		return "start"
	case GameStatePlaying:
		return "playing"
	case GameStateGameOver:
		return "game over"
	case GameStateSubmitting:
		return "submitting"
	case GameStateResults:
		return "results"
	}
	return "unknown"
}

// ClientState holds per-connection state outside the simulation.
type ClientState struct {
	Input      input.Input
	GameState  GameState
	Running    bool
	isInactive bool

	// Game over
	FinalScore int
	gameOverAt time.Time
	Username   []byte

	// Results
	Submitted bool  // The score reached the leaderboard
	SubmitErr error // Why it did not
	TopScores []leaderboard.Record
	TopErr    error
}

// NewClientState creates the state of a fresh connection on the title screen.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
	}
}

// setState switches screens.
func (s *ClientState) setState(gs GameState) {
	s.GameState = gs
}
