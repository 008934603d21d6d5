package loop

import (
	"context"
	"errors"

	"github.com/tomz197/invaders/internal/leaderboard"
	"github.com/tomz197/invaders/internal/loop/config"
)

// ErrOffline is reported when no leaderboard is configured.
var ErrOffline = errors.New("leaderboard not configured")

// Leaderboard is where final scores are submitted. *leaderboard.Client
// implements it.
type Leaderboard interface {
	Submit(ctx context.Context, username string, score int) error
	Records(ctx context.Context, page int, sorting leaderboard.Sorting) ([]leaderboard.Record, error)
}

type submitResult struct {
	err    error
	top    []leaderboard.Record
	topErr error
}

// submitAsync sends the score in the background. The simulation has already
// stopped, so nothing waits on it except the submitting screen.
func (c *Client) submitAsync(username string, score int) {
	ch := make(chan submitResult, 1)
	c.pending = ch
	board := c.board
	logger := c.logger

	go func() {
		ctx, cancel := context.WithTimeout(c.ctx, config.SubmitTimeout)
		defer cancel()

		var res submitResult
		if res.err = board.Submit(ctx, username, score); res.err != nil {
			logger.Warn("score submission failed", "username", username, "score", score, "err", res.err)
		} else {
			logger.Info("score submitted", "username", username, "score", score)
		}

		res.top, res.topErr = board.Records(ctx, 1, leaderboard.ScoreDesc)
		if len(res.top) > config.TopScores {
			res.top = res.top[:config.TopScores]
		}
		ch <- res
	}()
}

// processSubmission moves to the results screen once the submission is done.
func (c *Client) processSubmission() {
	if c.pending == nil {
		return
	}
	select {
	case res := <-c.pending:
		c.pending = nil
		c.state.Submitted = res.err == nil
		c.state.SubmitErr = res.err
		c.state.TopScores = res.top
		c.state.TopErr = res.topErr
		c.showResults()
	default:
	}
}
