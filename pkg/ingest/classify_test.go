package ingest

import (
	"testing"

	"keepnote/pkg/models"
)

func TestClassifyHomeOpened(t *testing.T) {
	f := newTestFilter()
	c := Classify(models.Event{Type: "app_home_opened", User: "AGENT1"}, f)
	if c.Action != ActionOpenHome || c.UserID != "AGENT1" {
		t.Fatalf("unexpected classification: %+v", c)
	}
	// only agents get the home surface
	c = Classify(models.Event{Type: "app_home_opened", User: "U01"}, f)
	if c.Action != ActionIgnore {
		t.Fatalf("expected ignore for non-agent, got %v", c.Action)
	}
}

func TestClassifyCloseReaction(t *testing.T) {
	f := newTestFilter()
	ev := models.Event{
		Type:     "reaction_added",
		User:     "AGENT1",
		Reaction: "white_check_mark",
		Item:     models.Item{Type: "message", Channel: "C01", TS: "100.1"},
	}
	c := Classify(ev, f)
	if c.Action != ActionClose {
		t.Fatalf("expected close, got %v", c.Action)
	}
	if c.ChannelID != "C01" || c.ThreadID != "100.1" || c.UserID != "AGENT1" {
		t.Fatalf("unexpected coordinates: %+v", c)
	}

	// heavy_check_mark closes too
	ev.Reaction = "heavy_check_mark"
	if got := Classify(ev, f); got.Action != ActionClose {
		t.Fatalf("expected close for heavy_check_mark, got %v", got.Action)
	}

	for name, bad := range map[string]models.Event{
		"non-agent":       {Type: "reaction_added", User: "U01", Reaction: "white_check_mark", Item: models.Item{Type: "message", Channel: "C01", TS: "100.1"}},
		"wrong reaction":  {Type: "reaction_added", User: "AGENT1", Reaction: "thumbsup", Item: models.Item{Type: "message", Channel: "C01", TS: "100.1"}},
		"wrong channel":   {Type: "reaction_added", User: "AGENT1", Reaction: "white_check_mark", Item: models.Item{Type: "message", Channel: "C99", TS: "100.1"}},
		"non-message":     {Type: "reaction_added", User: "AGENT1", Reaction: "white_check_mark", Item: models.Item{Type: "file", Channel: "C01", TS: "100.1"}},
	} {
		if got := Classify(bad, f); got.Action != ActionIgnore {
			t.Fatalf("%s: expected ignore, got %v", name, got.Action)
		}
	}
}

func TestClassifyReopenReaction(t *testing.T) {
	f := newTestFilter()
	ev := models.Event{
		Type:     "reaction_removed",
		User:     "AGENT2",
		Reaction: "heavy_check_mark",
		Item:     models.Item{Type: "message", Channel: "C02", TS: "200.2"},
	}
	c := Classify(ev, f)
	if c.Action != ActionReopen || c.ChannelID != "C02" || c.ThreadID != "200.2" {
		t.Fatalf("unexpected classification: %+v", c)
	}
}

func TestClassifyNewThreadMessage(t *testing.T) {
	f := newTestFilter()
	ev := models.Event{
		Type:        "message",
		ChannelType: "channel",
		Channel:     "C01",
		User:        "U01",
		Text:        "help",
		TS:          "100.1",
	}
	c := Classify(ev, f)
	if c.Action != ActionCreate {
		t.Fatalf("expected create, got %v", c.Action)
	}
	if c.ThreadID != "100.1" || c.MessageID != "100.1" || c.Text != "help" {
		t.Fatalf("unexpected coordinates: %+v", c)
	}

	// subtyped messages (edits, joins, bot posts) never create issues
	ev.Subtype = "message_changed"
	if got := Classify(ev, f); got.Action != ActionIgnore {
		t.Fatalf("expected ignore for subtyped message, got %v", got.Action)
	}
	ev.Subtype = ""
	ev.ChannelType = "im"
	if got := Classify(ev, f); got.Action != ActionIgnore {
		t.Fatalf("expected ignore for non-channel message, got %v", got.Action)
	}
	ev.ChannelType = "channel"
	ev.Channel = "C99"
	if got := Classify(ev, f); got.Action != ActionIgnore {
		t.Fatalf("expected ignore for unlisted channel, got %v", got.Action)
	}
}

func TestClassifyThreadReply(t *testing.T) {
	f := newTestFilter()
	ev := models.Event{
		Type:        "message",
		ChannelType: "channel",
		Channel:     "C01",
		User:        "U01",
		TS:          "101.5",
		ThreadTS:    "100.1",
	}
	c := Classify(ev, f)
	if c.Action != ActionReply {
		t.Fatalf("expected reply, got %v", c.Action)
	}
	if c.ThreadID != "100.1" || c.MessageID != "101.5" {
		t.Fatalf("unexpected coordinates: %+v", c)
	}
	if !c.Reopen {
		t.Fatalf("non-agent reply should carry the reopen flag")
	}

	ev.User = "AGENT1"
	c = Classify(ev, f)
	if c.Action != ActionReply || c.Reopen {
		t.Fatalf("agent reply must not reopen: %+v", c)
	}
}

func TestClassifyUnknownType(t *testing.T) {
	f := newTestFilter()
	if got := Classify(models.Event{Type: "channel_created"}, f); got.Action != ActionIgnore {
		t.Fatalf("expected ignore, got %v", got.Action)
	}
}

func TestActionString(t *testing.T) {
	cases := map[Action]string{
		ActionIgnore:   "ignore",
		ActionOpenHome: "open_home",
		ActionClose:    "close",
		ActionReopen:   "reopen",
		ActionCreate:   "create",
		ActionReply:    "reply",
	}
	for a, want := range cases {
		if got := a.String(); got != want {
			t.Fatalf("Action(%d).String() = %q, want %q", a, got, want)
		}
	}
}
