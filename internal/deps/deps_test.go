package deps

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

var stubScript = []byte("#!/bin/sh\nexit 0\n")

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	if err := os.WriteFile(present, stubScript, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  ", Optional: true},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}

	missing := MissingRequired(results)
	if !slices.Equal(missing, []string{"Missing"}) {
		t.Fatalf("MissingRequired = %v, want [Missing]", missing)
	}
}

func TestCheckFFmpegLocationDirectory(t *testing.T) {
	dir := t.TempDir()
	ffmpegPath := filepath.Join(dir, executableName("ffmpeg"))
	if err := os.WriteFile(ffmpegPath, stubScript, 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}

	status := CheckFFmpeg(dir)
	if !status.Available {
		t.Fatalf("expected ffmpeg in directory to be available, got detail %q", status.Detail)
	}
	if status.Command != ffmpegPath {
		t.Fatalf("expected ffmpeg command %q, got %q", ffmpegPath, status.Command)
	}
}

func TestCheckFFmpegLocationNotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, stubScript, 0o644); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
	if status := CheckFFmpeg(path); status.Available {
		t.Fatal("expected non-executable ffmpeg to be unavailable")
	}
}

func TestCheckFFmpegPathFallback(t *testing.T) {
	binDir := t.TempDir()
	ffmpegPath := filepath.Join(binDir, executableName("ffmpeg"))
	if err := os.WriteFile(ffmpegPath, stubScript, 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
	t.Setenv("PATH", binDir)

	status := CheckFFmpeg("")
	if !status.Available {
		t.Fatalf("expected ffmpeg fallback to be available, got detail %q", status.Detail)
	}
	if status.Command != ffmpegPath {
		t.Fatalf("expected ffmpeg command %q, got %q", ffmpegPath, status.Command)
	}
}

func TestCheckFFmpegNotFound(t *testing.T) {
	t.Setenv("PATH", "")
	status := CheckFFmpeg("")
	if status.Available {
		t.Fatal("expected ffmpeg resolution to fail")
	}
	if status.Detail == "" {
		t.Fatal("expected detail message when ffmpeg is unavailable")
	}
}
