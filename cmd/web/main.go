package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/leaderboard"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

func main() {
	if err := config.Load(); err != nil {
		log.Fatal("failed to load env", "err", err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           config.LogLevel(),
		ReportTimestamp: true,
		Prefix:          "web",
	})

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	storePath := config.GetEnv("LEADERBOARD_FILE", "")

	store := leaderboard.NewStore()
	if storePath != "" {
		var err error
		if store, err = leaderboard.OpenStore(storePath); err != nil {
			logger.Fatal("failed to open leaderboard", "path", storePath, "err", err)
		}
		logger.Info("leaderboard loaded", "path", storePath, "records", store.Len())
	} else {
		logger.Warn("LEADERBOARD_FILE not set, records are kept in memory only")
	}

	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)

	mux := http.NewServeMux()
	mux.Handle("/api/", leaderboard.NewHandler(store, leaderboard.NewHub(logger), logger))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting web server", "addr", "http://"+srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
