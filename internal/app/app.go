// Package app wires configuration, store, tracker and HTTP surface into a
// runnable server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"keepnote/internal/digest"
	"keepnote/pkg/config"
	"keepnote/pkg/ingest"
	"keepnote/pkg/logger"
	"keepnote/pkg/notify"
	"keepnote/pkg/store"
)

// App encapsulates the server components and lifecycle.
type App struct {
	cfg       *config.Config
	addr      string
	dbPath    string
	source    string
	version   string
	commit    string
	buildDate string

	tracker *ingest.Tracker
	srv     *http.Server
}

// New initializes resources that do not require a running context: config
// validation, the record store, the identity filter and the tracker. Call
// Run to start the HTTP server and block until shutdown.
func New(cfg *config.Config, addr, dbPath, source, version, commit, buildDate string) (*App, error) {
	_ = godotenv.Load(".env")

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	if err := store.Open(dbPath, cfg.Server.CacheSize.Int64()); err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", dbPath, err)
	}

	filter := ingest.NewFilter(cfg.Slack.TeamID, cfg.Slack.AppID, cfg.Slack.Channels, cfg.Slack.Agents)
	notifier := notify.New(cfg.Slack.APIURL, cfg.Slack.BotToken, cfg.Slack.Timeout.Duration())
	tracker := ingest.New(filter, notifier, cfg.Slack.WorkspaceURL)

	return &App{
		cfg:       cfg,
		addr:      addr,
		dbPath:    dbPath,
		source:    source,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
		tracker:   tracker,
	}, nil
}

// validateConfig fails fast on a config that cannot identify the
// workspace.
func validateConfig(cfg *config.Config) error {
	if cfg.Slack.TeamID == "" {
		return fmt.Errorf("slack.team_id is required")
	}
	if cfg.Slack.AppID == "" {
		return fmt.Errorf("slack.app_id is required")
	}
	if len(cfg.Slack.Channels) == 0 {
		return fmt.Errorf("slack.channels must list at least one channel")
	}
	if cfg.Slack.BotToken == "" {
		logger.Warn("no_bot_token_configured", "msg", "home view publishes will be rejected")
	}
	return nil
}

// Run starts the digest scheduler (if enabled) and the HTTP server, and
// blocks until ctx is canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	a.printBanner()

	if n, err := store.CountIssues(); err == nil {
		logger.Info("store_ready", "issues", n)
	}

	stopDigest, err := digest.Start(ctx, a.cfg, a.tracker)
	if err != nil {
		return err
	}
	defer stopDigest()

	errCh := a.startHTTP()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_shutdown_failed", "error", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("store_close_failed", "error", err)
	}
	return nil
}
