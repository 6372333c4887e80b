package validation

import (
	"strings"
	"testing"
)

func TestRequireAllPresent(t *testing.T) {
	err := Require("create", map[string]string{"channel": "C01", "ts": "100.1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireMissingFieldsSorted(t *testing.T) {
	err := Require("reply", map[string]string{
		"user":      "",
		"channel":   " ",
		"thread_ts": "100.1",
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	// deterministic message regardless of map iteration order
	if !strings.Contains(err.Error(), "channel, user") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestRequireTime(t *testing.T) {
	if err := RequireTime("close", "event_time", 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := RequireTime("close", "event_time", 0)
	if err == nil || !strings.Contains(err.Error(), "event_time") {
		t.Fatalf("unexpected error: %v", err)
	}
}
