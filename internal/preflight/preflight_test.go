package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ytharvest/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckReadableFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "cookies.txt")
	if err := os.WriteFile(f, []byte("# Netscape HTTP Cookie File\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if result := CheckReadableFile("cookies", f); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result := CheckReadableFile("cookies", dir); result.Passed {
		t.Fatal("expected failure for directory")
	}
	if result := CheckReadableFile("cookies", filepath.Join(dir, "missing")); result.Passed {
		t.Fatal("expected failure for missing file")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("space", dir, 1); !result.Passed {
		t.Fatalf("expected pass with 1 byte minimum, got: %s", result.Detail)
	}
	result := CheckFreeSpace("space", dir, ^uint64(0))
	if result.Passed {
		t.Fatal("expected failure with impossible minimum")
	}
	if !strings.Contains(result.Detail, "need") {
		t.Fatalf("expected requirement in detail, got %q", result.Detail)
	}
	if result := CheckFreeSpace("space", filepath.Join(dir, "missing"), 1); result.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestRunAllSkipsUnconfiguredFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.InputCSV = ""
	cfg.Paths.CookieFile = ""

	results := RunAll(cfg)
	if len(results) != 2 {
		t.Fatalf("expected output dir checks only, got %+v", results)
	}
	if failed := Failures(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %s", Summary(failed))
	}
}

func TestRunAllReportsMissingCookieFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteText(t, cfg.Paths.InputCSV, "link\n")
	cfg.Paths.CookieFile = filepath.Join(testsupport.BaseDir(cfg), "cookies.txt")

	failed := Failures(RunAll(cfg))
	if len(failed) != 1 || failed[0].Name != "Cookie file" {
		t.Fatalf("expected only the cookie check to fail, got %+v", failed)
	}
	if !strings.HasPrefix(Summary(failed), "Cookie file: ") {
		t.Fatalf("unexpected summary %q", Summary(failed))
	}
}

func TestCheckSystemDeps(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	statuses := CheckSystemDeps(cfg)
	if len(statuses) != 2 {
		t.Fatalf("expected yt-dlp and ffmpeg statuses, got %+v", statuses)
	}
	for _, status := range statuses {
		if !status.Available {
			t.Fatalf("expected %s to be available, got %q", status.Name, status.Detail)
		}
	}
}

func TestProbeVersion(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "yt-dlp")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\necho 2025.10.22\necho extra\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	version := ProbeVersion(context.Background(), bin)
	if version.Err != nil || version.Version != "2025.10.22" {
		t.Fatalf("unexpected version %+v", version)
	}
	if version.Detail() != "2025.10.22" {
		t.Fatalf("unexpected detail %q", version.Detail())
	}

	missing := ProbeVersion(context.Background(), filepath.Join(dir, "missing"))
	if missing.Err == nil || !strings.HasPrefix(missing.Detail(), "version unknown") {
		t.Fatalf("expected error for missing binary, got %+v", missing)
	}
}
