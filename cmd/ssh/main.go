package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/muesli/termenv"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/leaderboard"
	"github.com/tomz197/invaders/internal/loop"
	loopconfig "github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/wave"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	shutdownTimeout    = 15 * time.Second
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal("failed to load env", "err", err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           config.LogLevel(),
		ReportTimestamp: true,
		Prefix:          "ssh",
	})

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath)

	var board loop.Leaderboard
	if url := config.GetEnv("LEADERBOARD_URL", ""); url != "" {
		board = leaderboard.NewClient(url, &http.Client{Timeout: loopconfig.SubmitTimeout})
		logger.Info("leaderboard enabled", "url", url)
	} else {
		logger.Warn("LEADERBOARD_URL not set, scores will not be submitted")
	}

	// Cancelled on shutdown so running games end and their sessions close.
	gamesCtx, stopGames := context.WithCancel(context.Background())
	var games sync.WaitGroup

	app := &gameApp{
		ctx:    gamesCtx,
		games:  &games,
		board:  board,
		logger: logger,
		seed:   config.GetEnvInt("INVADERS_SEED", 0),

		waveInterval: config.GetEnvDuration("INVADERS_WAVE_INTERVAL", wave.DefaultInterval),
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			app.middleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	stopGames()
	waitTimeout(&games, shutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// waitTimeout waits for wg or gives up after d.
func waitTimeout(wg *sync.WaitGroup, d time.Duration) {
	ch := make(chan struct{})
	go func() {
		wg.Wait()
		close(ch)
	}()
	select {
	case <-ch:
	case <-time.After(d):
	}
}

// gameApp runs one independent game per SSH session.
type gameApp struct {
	ctx    context.Context
	games  *sync.WaitGroup
	board  loop.Leaderboard
	logger *log.Logger
	seed   int64

	waveInterval time.Duration
}

// middleware handles SSH sessions and runs the game client.
func (a *gameApp) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		a.games.Add(1)
		defer a.games.Done()

		logger := a.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		logger.Info("New game session", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		ctx, cancel := context.WithCancel(a.ctx)
		defer cancel()
		go func() {
			select {
			case <-sess.Context().Done():
				cancel()
			case <-ctx.Done():
			}
		}()

		c := loop.NewClient(bufio.NewReader(sess), sess, loop.Options{
			TermSizeFunc: sizeTracker.getSize,
			Leaderboard:  a.board,
			Renderer:     newRenderer(sess, pty),
			Logger:       logger,
			Seed:         a.seed,
			WaveInterval: a.waveInterval,
		})
		if err := c.Run(ctx); err != nil {
			logger.Error("Game error", "err", err)
		}

		logger.Info("Session ended")
		next(sess)
	}
}

// newRenderer creates a lipgloss renderer that detects colors from the
// client's terminal instead of the server's.
func newRenderer(sess ssh.Session, pty ssh.Pty) *lipgloss.Renderer {
	env := sessionEnviron{environ: append(sess.Environ(), "TERM="+pty.Term)}
	return lipgloss.NewRenderer(sess,
		termenv.WithEnvironment(env),
		termenv.WithUnsafe(),
		termenv.WithColorCache(true),
	)
}

// sessionEnviron exposes the SSH session environment to termenv.
type sessionEnviron struct {
	environ []string
}

func (e sessionEnviron) Environ() []string {
	return e.environ
}

func (e sessionEnviron) Getenv(key string) string {
	for _, kv := range e.environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v
		}
	}
	return ""
}

var _ termenv.Environ = sessionEnviron{}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
