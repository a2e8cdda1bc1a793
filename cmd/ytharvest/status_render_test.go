package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"ytharvest/internal/deps"
	"ytharvest/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("yt-dlp", statusError, "not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "yt-dlp:", "[ERROR] not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("yt-dlp", statusOK, "Ready", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestDependencyLines(t *testing.T) {
	statuses := []deps.Status{
		{Name: "yt-dlp", Available: true, Command: "/usr/bin/yt-dlp"},
		{Name: "FFmpeg", Available: false},
		{Name: "extra", Available: false, Optional: true, Detail: "not configured"},
	}
	lines := dependencyLines(statuses, map[string]string{"yt-dlp": "2025.01.01"}, false)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "[OK] Ready (command: /usr/bin/yt-dlp), 2025.01.01") {
		t.Fatalf("unexpected ready line %q", lines[0])
	}
	if !strings.Contains(lines[1], "[ERROR] not available") {
		t.Fatalf("expected error detail in second line, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "[WARN] not configured") {
		t.Fatalf("expected warn detail in third line, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "Missing dependencies:") || !strings.Contains(lines[3], "FFmpeg, extra") {
		t.Fatalf("expected missing dependencies summary, got %q", lines[3])
	}
}

func TestPreflightLines(t *testing.T) {
	lines := preflightLines([]preflight.Result{
		{Name: "Output directory", Passed: true, Detail: "/tmp (read/write ok)"},
		{Name: "Cookie file", Detail: "missing"},
	}, false)
	if !strings.Contains(lines[0], "[OK]") || !strings.Contains(lines[1], "[ERROR] missing") {
		t.Fatalf("unexpected lines %q", lines)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "2025.01.01")
	requireContains(t, out, "Output directory")
	if strings.Contains(out, ansiReset) {
		t.Fatal("status output to a buffer should not be colorized")
	}
}
