// Package ingest turns inbound event envelopes into issue lifecycle
// transitions: the identity filter gates on workspace, app, channel and
// actor; the classifier selects exactly one transition; the tracker
// dispatches it against the record store. Each envelope is a stateless
// unit of work; same-thread races serialize on the store's conditional
// primitives.
package ingest

import (
	"context"
	"errors"

	"keepnote/pkg/homeview"
	"keepnote/pkg/issues"
	"keepnote/pkg/logger"
	"keepnote/pkg/metrics"
	"keepnote/pkg/models"
	"keepnote/pkg/store"
	"keepnote/pkg/validation"
)

// Notifier publishes a rendered home view as one user's personalized
// surface.
type Notifier interface {
	PublishHome(ctx context.Context, userID string, view models.View) error
}

// Tracker is the per-event entry point wiring filter, classifier, engine
// and renderer together.
type Tracker struct {
	filter       *Filter
	notifier     Notifier
	workspaceURL string
}

// New builds a Tracker.
func New(f *Filter, n Notifier, workspaceURL string) *Tracker {
	return &Tracker{filter: f, notifier: n, workspaceURL: workspaceURL}
}

// Filter exposes the identity filter, for collaborators that need the
// agent list.
func (t *Tracker) Filter() *Filter { return t.filter }

// Handle processes one envelope. A challenge envelope short-circuits and
// returns the challenge value to echo. A returned error is a reportable
// condition (precondition violation or malformed envelope), never an
// identity mismatch: those are silently dropped.
func (t *Tracker) Handle(ctx context.Context, env models.Envelope) (challenge string, err error) {
	if env.Challenge != "" {
		return env.Challenge, nil
	}
	metrics.EventsReceived.Inc()
	if !t.filter.ValidTeam(env.TeamID) || !t.filter.ValidApp(env.APIAppID) {
		metrics.EventsIgnored.Inc()
		return "", nil
	}

	c := Classify(env.Event, t.filter)
	switch c.Action {
	case ActionIgnore:
		metrics.EventsIgnored.Inc()
		return "", nil

	case ActionOpenHome:
		t.PublishHome(ctx, c.UserID)

	case ActionClose:
		if err := validation.Require("close", map[string]string{
			"item.channel": c.ChannelID,
			"item.ts":      c.ThreadID,
			"user":         c.UserID,
		}); err != nil {
			return "", err
		}
		if err := validation.RequireTime("close", "event_time", env.EventTime); err != nil {
			return "", err
		}
		if err := t.apply(c, issues.Close(c.ChannelID, c.ThreadID, c.UserID, env.EventTime)); err != nil {
			return "", err
		}

	case ActionReopen:
		if err := validation.Require("reopen", map[string]string{
			"item.channel": c.ChannelID,
			"item.ts":      c.ThreadID,
		}); err != nil {
			return "", err
		}
		if err := t.apply(c, issues.Reopen(c.ChannelID, c.ThreadID)); err != nil {
			return "", err
		}

	case ActionCreate:
		if err := validation.Require("create", map[string]string{
			"channel": c.ChannelID,
			"ts":      c.ThreadID,
			"user":    c.UserID,
		}); err != nil {
			return "", err
		}
		if err := validation.RequireTime("create", "event_time", env.EventTime); err != nil {
			return "", err
		}
		if err := t.apply(c, issues.Create(issues.CreateParams{
			ChannelID: c.ChannelID,
			ThreadID:  c.ThreadID,
			UserID:    c.UserID,
			Text:      c.Text,
			CreatedAt: env.EventTime,
		})); err != nil {
			return "", err
		}

	case ActionReply:
		if err := validation.Require("reply", map[string]string{
			"channel":   c.ChannelID,
			"thread_ts": c.ThreadID,
			"ts":        c.MessageID,
			"user":      c.UserID,
		}); err != nil {
			return "", err
		}
		if err := validation.RequireTime("reply", "event_time", env.EventTime); err != nil {
			return "", err
		}
		if err := t.apply(c, issues.RecordReply(c.ChannelID, c.ThreadID, c.MessageID, env.EventTime, c.UserID)); err != nil {
			return "", err
		}
		// A non-agent reply reopens the thread even when it is already
		// open; the reopen mutation is no-op-safe in that case.
		if c.Reopen {
			rc := c
			rc.Action = ActionReopen
			if err := t.apply(rc, issues.Reopen(c.ChannelID, c.ThreadID)); err != nil {
				return "", err
			}
		}
	}
	return "", nil
}

// apply records the outcome of a transition: precondition violations are
// counted and logged as data-integrity signals before being returned.
func (t *Tracker) apply(c Classification, err error) error {
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.PreconditionFailures.Inc()
			logger.Error("transition_precondition_failed",
				"action", c.Action.String(),
				"channel", c.ChannelID,
				"thread", c.ThreadID,
				"error", err)
		}
		return err
	}
	metrics.Transitions.WithLabelValues(c.Action.String()).Inc()
	return nil
}

// PublishHome reads the open issues, renders the home view and hands it to
// the notifier. Publishing is best-effort: failures are logged and
// suppressed, leaving the user with a stale view at worst.
func (t *Tracker) PublishHome(ctx context.Context, userID string) {
	open, err := issues.ListOpen()
	if err != nil {
		logger.Error("open_issues_query_failed", "user", userID, "error", err)
		return
	}
	view := homeview.Render(t.workspaceURL, open)
	if t.notifier == nil {
		return
	}
	if err := t.notifier.PublishHome(ctx, userID, view); err != nil {
		metrics.PublishFailures.Inc()
		logger.Error("home_publish_failed", "user", userID, "error", err)
	}
}
