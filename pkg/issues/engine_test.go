package issues

import (
	"errors"
	"testing"

	"keepnote/pkg/models"
	"keepnote/pkg/store"
)

func openTestStore(t *testing.T) {
	t.Helper()
	if err := store.Open(t.TempDir(), 0); err != nil {
		t.Fatalf("store.Open: %v", err)
	}
}

func TestCreateInitializesRecord(t *testing.T) {
	openTestStore(t)
	err := Create(CreateParams{ChannelID: "C01", ThreadID: "100.1", UserID: "U01", Text: "help", CreatedAt: 100})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	iss, err := store.GetIssue("C01:100.1")
	if err != nil {
		t.Fatalf("GetIssue: %v", err)
	}
	if iss.Status != models.StatusOpen {
		t.Fatalf("expected open, got %q", iss.Status)
	}
	if iss.LastMessageID != "100.1" || iss.LastMessageAt != 100 || iss.LastMessageUserID != "U01" {
		t.Fatalf("activity pointer not initialized to creating message: %+v", iss)
	}
	if iss.ClosedBy != "" || iss.ClosedAt != 0 {
		t.Fatalf("closed fields must be absent on a fresh record: %+v", iss)
	}
}

func TestCreateDuplicateIsSilentNoop(t *testing.T) {
	openTestStore(t)
	if err := Create(CreateParams{ChannelID: "C01", ThreadID: "100.1", UserID: "U01", Text: "original", CreatedAt: 100}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// a duplicate create must not propagate an error nor overwrite
	if err := Create(CreateParams{ChannelID: "C01", ThreadID: "100.1", UserID: "U02", Text: "imposter", CreatedAt: 999}); err != nil {
		t.Fatalf("duplicate Create must be a no-op, got %v", err)
	}
	iss, _ := store.GetIssue("C01:100.1")
	if iss.UserID != "U01" || iss.Text != "original" || iss.CreatedAt != 100 {
		t.Fatalf("duplicate create overwrote the record: %+v", iss)
	}
}

func TestCloseReopenRoundTrip(t *testing.T) {
	openTestStore(t)
	if err := Create(CreateParams{ChannelID: "C01", ThreadID: "100.1", UserID: "U01", Text: "help", CreatedAt: 100}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := Close("C01", "100.1", "AGENT1", 200); err != nil {
		t.Fatalf("Close: %v", err)
	}
	iss, _ := store.GetIssue("C01:100.1")
	if iss.Status != models.StatusClosed || iss.ClosedBy != "AGENT1" || iss.ClosedAt != 200 {
		t.Fatalf("unexpected record after close: %+v", iss)
	}
	if err := Reopen("C01", "100.1"); err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	iss, _ = store.GetIssue("C01:100.1")
	if iss.Status != models.StatusOpen || iss.ClosedBy != "" || iss.ClosedAt != 0 {
		t.Fatalf("reopen must clear closed fields: %+v", iss)
	}
}

func TestReopenAlreadyOpenIsSafe(t *testing.T) {
	openTestStore(t)
	if err := Create(CreateParams{ChannelID: "C01", ThreadID: "100.1", UserID: "U01", CreatedAt: 100}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := Reopen("C01", "100.1"); err != nil {
		t.Fatalf("Reopen on open issue: %v", err)
	}
	iss, _ := store.GetIssue("C01:100.1")
	if iss.Status != models.StatusOpen {
		t.Fatalf("expected still open: %+v", iss)
	}
}

func TestRecordReplyOverwritesPointer(t *testing.T) {
	openTestStore(t)
	if err := Create(CreateParams{ChannelID: "C01", ThreadID: "100.1", UserID: "U01", CreatedAt: 100}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := RecordReply("C01", "100.1", "150.2", 150, "U02"); err != nil {
		t.Fatalf("RecordReply: %v", err)
	}
	if err := RecordReply("C01", "100.1", "180.9", 180, "AGENT1"); err != nil {
		t.Fatalf("RecordReply: %v", err)
	}
	iss, _ := store.GetIssue("C01:100.1")
	if iss.LastMessageID != "180.9" || iss.LastMessageAt != 180 || iss.LastMessageUserID != "AGENT1" {
		t.Fatalf("pointer not overwritten: %+v", iss)
	}
	if iss.CreatedAt != 100 || iss.UserID != "U01" {
		t.Fatalf("immutable fields changed: %+v", iss)
	}
}

func TestTransitionsRequireExistingRecord(t *testing.T) {
	openTestStore(t)
	if err := Close("C01", "0.0", "AGENT1", 1); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Close: expected ErrNotFound, got %v", err)
	}
	if err := Reopen("C01", "0.0"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Reopen: expected ErrNotFound, got %v", err)
	}
	if err := RecordReply("C01", "0.0", "1.1", 1, "U01"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("RecordReply: expected ErrNotFound, got %v", err)
	}
	if n, _ := store.CountIssues(); n != 0 {
		t.Fatalf("failed transitions must not create records, got %d", n)
	}
}

func TestListOpenOrderedByActivity(t *testing.T) {
	openTestStore(t)
	for _, p := range []CreateParams{
		{ChannelID: "C01", ThreadID: "300.1", UserID: "U03", CreatedAt: 300},
		{ChannelID: "C01", ThreadID: "100.1", UserID: "U01", CreatedAt: 100},
		{ChannelID: "C02", ThreadID: "200.1", UserID: "U02", CreatedAt: 200},
	} {
		if err := Create(p); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	// closed issues drop out of the open listing
	if err := Close("C01", "300.1", "AGENT1", 400); err != nil {
		t.Fatalf("Close: %v", err)
	}
	open, err := ListOpen()
	if err != nil {
		t.Fatalf("ListOpen: %v", err)
	}
	if len(open) != 2 {
		t.Fatalf("expected 2 open issues, got %d", len(open))
	}
	if open[0].ThreadID != "100.1" || open[1].ThreadID != "200.1" {
		t.Fatalf("open issues out of order: %+v", open)
	}
	// a reply moves the issue to the back of the activity ordering
	if err := RecordReply("C01", "100.1", "500.5", 500, "U09"); err != nil {
		t.Fatalf("RecordReply: %v", err)
	}
	open, _ = ListOpen()
	if open[0].ThreadID != "200.1" || open[1].ThreadID != "100.1" {
		t.Fatalf("activity reorder failed: %+v", open)
	}
}
