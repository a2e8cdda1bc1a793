package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abc.json")

	if err := WriteFileAtomic(path, []byte(`{"id":"abc"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"id":"abc"}` {
		t.Fatalf("content mismatch: %q", got)
	}

	if err := WriteFileAtomic(path, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, _ = os.ReadFile(path)
	if string(got) != "second" {
		t.Fatalf("expected overwrite, got %q", got)
	}
	assertNoTempFiles(t, dir)
}

func TestWriteFileAtomicCleansUpOnRenameFailure(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "occupied")
	if err := os.MkdirAll(filepath.Join(target, "child"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := WriteFileAtomic(target, []byte("data"), 0o644); err == nil {
		t.Fatal("expected rename onto a non-empty directory to fail")
	}
	assertNoTempFiles(t, dir)
}

func TestWriteFileAtomicMissingDirectory(t *testing.T) {
	if err := WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "x.json"), []byte("x"), 0o644); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestIsRegularFileAndRemoveFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.vtt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !IsRegularFile(file) {
		t.Fatal("expected regular file")
	}
	if IsRegularFile(dir) {
		t.Fatal("directory is not a regular file")
	}

	if err := RemoveFiles(file, filepath.Join(dir, "gone.vtt"), ""); err != nil {
		t.Fatalf("RemoveFiles: %v", err)
	}
	if IsRegularFile(file) {
		t.Fatal("expected file removed")
	}
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}
}
