package homeview

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"keepnote/pkg/models"
)

const testWorkspace = "https://example.slack.com"

func openIssue(channel, thread string, at int64) models.Issue {
	return models.Issue{
		PK:                models.IssueKey(channel, thread),
		ChannelID:         channel,
		ThreadID:          thread,
		UserID:            "U01",
		Text:              "please help",
		Status:            models.StatusOpen,
		CreatedAt:         at,
		LastMessageID:     thread,
		LastMessageAt:     at,
		LastMessageUserID: "U01",
	}
}

func TestSnippetTruncation(t *testing.T) {
	long := strings.Repeat("a", 100)
	got := Snippet(long)
	if utf8.RuneCountInString(got) != 70 {
		t.Fatalf("expected 70 runes, got %d", utf8.RuneCountInString(got))
	}
	if got != strings.Repeat("a", 70) {
		t.Fatalf("unexpected snippet: %q", got)
	}
}

func TestSnippetCollapsesNewlines(t *testing.T) {
	got := Snippet("first line\nsecond line\nthird")
	if strings.Contains(got, "\n") {
		t.Fatalf("snippet still contains newlines: %q", got)
	}
	if got != "first line second line third" {
		t.Fatalf("unexpected snippet: %q", got)
	}
}

func TestSnippetShortTextUnchanged(t *testing.T) {
	if got := Snippet("short"); got != "short" {
		t.Fatalf("unexpected snippet: %q", got)
	}
}

func TestThreadLinkThreadStart(t *testing.T) {
	iss := openIssue("C01", "1700000000.000100", 100)
	got := ThreadLink(testWorkspace, iss)
	want := "https://example.slack.com/archives/C01/p1700000000000100"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestThreadLinkLatestReply(t *testing.T) {
	iss := openIssue("C01", "1700000000.000100", 100)
	iss.LastMessageID = "1700000500.000200"
	iss.LastMessageUserID = "U02"
	got := ThreadLink(testWorkspace, iss)
	want := "https://example.slack.com/archives/C01/p1700000500000200" +
		"?thread_ts=1700000000.000100&cid=C01"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestThreadLinkTrimsTrailingSlash(t *testing.T) {
	iss := openIssue("C01", "100.1", 100)
	got := ThreadLink(testWorkspace+"/", iss)
	if strings.Contains(got, ".com//") {
		t.Fatalf("double slash in link: %q", got)
	}
}

func TestRenderEmptyList(t *testing.T) {
	v := Render(testWorkspace, nil)
	if v.Type != "home" {
		t.Fatalf("expected home view type, got %q", v.Type)
	}
	if v.Title.Text != "Keep note!" {
		t.Fatalf("unexpected title: %q", v.Title.Text)
	}
	// static preamble only: intro, two headers, how-it-works
	if len(v.Blocks) != 4 {
		t.Fatalf("expected 4 preamble blocks, got %d", len(v.Blocks))
	}
	for _, b := range v.Blocks {
		if b.Type == models.BlockDivider {
			t.Fatalf("empty list must not render dividers")
		}
	}
}

func TestRenderDividerPlacement(t *testing.T) {
	open := []models.Issue{
		openIssue("C01", "100.1", 100),
		openIssue("C01", "200.1", 200),
		openIssue("C02", "300.1", 300),
	}
	v := Render(testWorkspace, open)
	var dividers int
	for _, b := range v.Blocks {
		if b.Type == models.BlockDivider {
			dividers++
		}
	}
	if dividers != len(open)-1 {
		t.Fatalf("expected %d dividers, got %d", len(open)-1, dividers)
	}
	if v.Blocks[len(v.Blocks)-1].Type == models.BlockDivider {
		t.Fatalf("divider rendered after the last entry")
	}
}

func TestRenderEntryContent(t *testing.T) {
	iss := openIssue("C01", "100.1", 100)
	iss.Text = "my build\nis broken"
	iss.LastMessageID = "150.2"
	iss.LastMessageUserID = "AGENT1"
	v := Render(testWorkspace, []models.Issue{iss})

	var joined strings.Builder
	for _, b := range v.Blocks {
		if b.Text != nil {
			joined.WriteString(b.Text.Text)
		}
		for _, e := range b.Elements {
			joined.WriteString(e.Text)
		}
	}
	body := joined.String()
	for _, want := range []string{
		"<@U01> asked in <#C01>: `my build is broken`",
		"Last replied by <@AGENT1>",
		"?thread_ts=100.1&cid=C01",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("rendered view missing %q:\n%s", want, body)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	open := []models.Issue{
		openIssue("C01", "100.1", 100),
		openIssue("C02", "200.1", 200),
	}
	a := Render(testWorkspace, open)
	b := Render(testWorkspace, open)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("rendering is not deterministic")
	}
}
