package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSessionIDStampedOnEveryRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newSessionIDHandler(slog.NewJSONHandler(&buf, nil), "run-123")).With("component", "batch")
	logger.Info("first")
	logger.Warn("second", "video_id", "aaaaaaaaaaa")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 records, got %d: %s", len(lines), buf.String())
	}
	for _, line := range lines {
		if !strings.Contains(line, `"session_id":"run-123"`) {
			t.Fatalf("expected session_id in %s", line)
		}
		if !strings.Contains(line, `"component":"batch"`) {
			t.Fatalf("expected component attr in %s", line)
		}
	}
}

func TestStampHandlerSkipsEmptyValues(t *testing.T) {
	base := slog.NewJSONHandler(&bytes.Buffer{}, nil)
	if got := newSessionIDHandler(base, ""); got != slog.Handler(base) {
		t.Fatalf("expected base handler when session id is empty, got %T", got)
	}
}

func TestStampHandlerNilBase(t *testing.T) {
	if _, ok := newSessionIDHandler(nil, "run").(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when base is nil")
	}
}
