package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/leaderboard"
	"github.com/tomz197/invaders/internal/loop"
	loopconfig "github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/wave"
)

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load env: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the game, so logs go to a file when asked for.
	logger := log.NewWithOptions(io.Discard, log.Options{Level: config.LogLevel()})
	if path := config.GetEnv("INVADERS_LOG", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
		logger.SetReportTimestamp(true)
	}

	opts := loop.Options{
		Logger:       logger,
		Seed:         config.GetEnvInt("INVADERS_SEED", 0),
		WaveInterval: config.GetEnvDuration("INVADERS_WAVE_INTERVAL", wave.DefaultInterval),
	}
	if url := config.GetEnv("LEADERBOARD_URL", ""); url != "" {
		opts.Leaderboard = leaderboard.NewClient(url, &http.Client{Timeout: loopconfig.SubmitTimeout})
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	reader := bufio.NewReader(os.Stdin)
	if err := loop.NewClient(reader, os.Stdout, opts).Run(ctx); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
