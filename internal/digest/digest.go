// Package digest periodically republishes the home view to every
// configured agent so the surface stays fresh without waiting for a
// home-opened event.
package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"keepnote/pkg/config"
	"keepnote/pkg/ingest"
	"keepnote/pkg/logger"
)

// defaultCron publishes every morning at 09:00.
const defaultCron = "0 9 * * *"

// Start starts the digest scheduler if enabled. Returns a cancel func.
func Start(ctx context.Context, cfg *config.Config, t *ingest.Tracker) (context.CancelFunc, error) {
	if !cfg.Digest.Enabled {
		logger.Info("digest_disabled")
		return func() {}, nil
	}
	cronExpr := cfg.Digest.Cron
	if cronExpr == "" {
		cronExpr = defaultCron
	}
	if !gronx.IsValid(cronExpr) {
		return nil, fmt.Errorf("invalid digest cron expression: %s", cfg.Digest.Cron)
	}

	logger.Info("digest_enabled", "cron", cronExpr, "agents", len(t.Filter().Agents()))
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, cronExpr, t)
	return cancel, nil
}

// runScheduler computes the next cron tick and sleeps until then, then
// publishes the home view to every agent.
func runScheduler(ctx context.Context, cronExpr string, t *ingest.Tracker) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("digest_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("digest_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
		case <-ctx.Done():
			logger.Info("digest_scheduler_stopping")
			return
		}

		publishAll(ctx, t)
	}
}

func publishAll(ctx context.Context, t *ingest.Tracker) {
	agents := t.Filter().Agents()
	logger.Info("digest_run", "agents", len(agents))
	for _, agent := range agents {
		t.PublishHome(ctx, agent)
	}
}
