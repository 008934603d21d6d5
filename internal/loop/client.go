// Package loop runs the terminal client: title screen, gameplay, name entry
// and leaderboard results, one frame at a time.
package loop

import (
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/game"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/leaderboard"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
)

// Client handles rendering and input for a single terminal.
type Client struct {
	ctx          context.Context
	session      *game.Session
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates a frame for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	styles       styles

	board   Leaderboard
	pending chan submitResult
	logger  *log.Logger
	seed    int64
	games   int64

	waveInterval time.Duration
}

// Options configures the client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Leaderboard  Leaderboard        // nil plays offline
	Renderer     *lipgloss.Renderer // nil uses the default renderer
	Logger       *log.Logger
	Seed         int64         // 0 seeds each game from the clock
	WaveInterval time.Duration // Pause between waves; 0 uses the default
}

// NewClient creates a client reading keys from r and drawing to w.
func NewClient(r io.Reader, w io.Writer, opts Options) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.FieldWidth, config.FieldHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		ctx:          context.Background(),
		state:        NewClientState(),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
		styles:       newStyles(renderer),
		board:        opts.Leaderboard,
		logger:       logger,
		seed:         opts.Seed,
		waveInterval: opts.WaveInterval,
	}
}

// Run starts the client loop. Blocks until the player quits, the input ends
// or ctx is done.
func (c *Client) Run(ctx context.Context) error {
	c.ctx = ctx
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	for c.state.Running {
		frameStart := time.Now()

		if ctx.Err() != nil {
			break
		}

		c.processInput(frameStart)
		c.updateScreen()
		c.update(frameStart)

		if err := c.drawFrame(frameStart); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads this frame's keys and tracks inactivity.
func (c *Client) processInput(now time.Time) {
	c.state.Input = c.inputStream.Read(now)
	c.trackActivity(now)
}

func (c *Client) trackActivity(now time.Time) {
	in := c.state.Input
	if in.Closed || in.Interrupt {
		c.state.Running = false
		return
	}

	pressed := in.Left || in.Right || in.Fire || in.Enter || in.Backspace || in.Escape || len(in.Text) > 0
	idle := now.Sub(c.lastInput).Seconds()
	switch {
	case pressed:
		c.lastInput = now
		c.state.isInactive = false
	case idle > config.InactivityDisconnectUser:
		c.logger.Info("disconnecting inactive player")
		c.state.Running = false
	case idle > config.InactivityWarnUser:
		c.state.isInactive = true
	}
}

// update advances the current screen by one frame.
func (c *Client) update(now time.Time) {
	if !c.state.Running {
		return
	}
	switch c.state.GameState {
	case GameStateStart:
		c.updateStartState()
	case GameStatePlaying:
		c.updatePlayingState(now)
	case GameStateGameOver:
		c.updateGameOverState(now)
	case GameStateSubmitting:
		c.processSubmission()
	case GameStateResults:
		c.updateResultsState()
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.ClearScreen()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(max(termWidth, 1), config.MaxTermWidth)
	renderHeight = min(max(termHeight, 1), config.MaxTermHeight)
	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}

// updateStartState handles the title screen.
func (c *Client) updateStartState() {
	in := c.state.Input
	switch {
	case in.Quit:
		c.state.Running = false
	case in.Fire || in.Enter:
		c.startGame()
	}
}

// updatePlayingState ticks the simulation with this frame's intent.
func (c *Client) updatePlayingState(now time.Time) {
	in := c.state.Input
	if in.Quit {
		c.state.Running = false
		return
	}
	c.session.Tick(now, object.Intent{Left: in.Left, Right: in.Right, Fire: in.Fire})
}

// updateGameOverState edits the username and submits it on Enter.
func (c *Client) updateGameOverState(now time.Time) {
	if now.Sub(c.state.gameOverAt) < config.GameOverInputDelay {
		return
	}
	in := c.state.Input

	if in.Escape {
		c.state.SubmitErr = nil
		c.state.Submitted = false
		c.showResults()
		return
	}
	if n := len(c.state.Username); in.Backspace && n > 0 {
		c.state.Username = c.state.Username[:n-1]
	}
	for _, b := range in.Text {
		if len(c.state.Username) < config.MaxUsernameLength {
			c.state.Username = append(c.state.Username, b)
		}
	}

	if !in.Enter || !leaderboard.ValidUsername(string(c.state.Username)) {
		return
	}
	if c.board == nil {
		c.state.SubmitErr = ErrOffline
		c.showResults()
		return
	}
	c.state.setState(GameStateSubmitting)
	c.submitAsync(string(c.state.Username), c.state.FinalScore)
}

// updateResultsState restarts on SPACE or Enter.
func (c *Client) updateResultsState() {
	in := c.state.Input
	switch {
	case in.Quit:
		c.state.Running = false
	case in.Fire || in.Enter:
		c.startGame()
	}
}

// startGame starts a fresh session.
func (c *Client) startGame() {
	c.inputStream.Reset()

	seed := c.seed + c.games
	if c.seed == 0 {
		seed = time.Now().UnixNano()
	}
	c.games++

	c.session = game.NewSession(game.Options{
		Field:      object.Field{Width: config.FieldWidth, Height: config.FieldHeight},
		Rand:       rand.New(rand.NewSource(seed)),
		Interval:   c.waveInterval,
		OnGameOver: c.onGameOver,
		Logger:     c.logger,
	})
	c.state.FinalScore = 0
	c.state.setState(GameStatePlaying)
	c.logger.Debug("game started", "seed", seed, "game", c.games)
}

// onGameOver is the session's game-over hook. It runs inside Tick.
func (c *Client) onGameOver(score int) {
	c.state.FinalScore = score
	c.state.gameOverAt = c.lastTick()
	c.state.SubmitErr = nil
	c.state.Submitted = false
	c.state.TopScores = nil
	c.state.TopErr = nil
	c.state.setState(GameStateGameOver)
}

func (c *Client) lastTick() time.Time {
	if c.session == nil {
		return time.Now()
	}
	return c.session.LastTick()
}

func (c *Client) showResults() {
	c.inputStream.Reset()
	c.state.setState(GameStateResults)
}
