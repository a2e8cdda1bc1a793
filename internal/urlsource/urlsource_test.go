package urlsource_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"ytharvest/internal/services"
	"ytharvest/internal/urlsource"
)

func writeCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "links.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestLoadCSVTrimsSkipsAndDedupes(t *testing.T) {
	path := writeCSV(t, "link,notes\nhttp://x,a\n  http://x  ,b\n,c\nhttp://y,d\n")

	urls, err := urlsource.LoadCSV(path, "link")
	if err != nil {
		t.Fatalf("LoadCSV returned error: %v", err)
	}
	if !slices.Equal(urls, []string{"http://x", "http://y"}) {
		t.Fatalf("unexpected urls: %v", urls)
	}
}

func TestLoadCSVMissingColumnListsHeaders(t *testing.T) {
	path := writeCSV(t, "url,notes\nhttp://x,a\n")

	_, err := urlsource.LoadCSV(path, "link")
	if err == nil {
		t.Fatal("expected error for missing column")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "url, notes") {
		t.Fatalf("expected found columns in error, got %v", err)
	}
}

func TestLoadCSVToleratesBOMAndRaggedRows(t *testing.T) {
	path := writeCSV(t, "\ufefflink,title\nhttps://youtu.be/a\nhttps://youtu.be/b,Talk,extra\n")

	urls, err := urlsource.LoadCSV(path, "link")
	if err != nil {
		t.Fatalf("LoadCSV returned error: %v", err)
	}
	if !slices.Equal(urls, []string{"https://youtu.be/a", "https://youtu.be/b"}) {
		t.Fatalf("unexpected urls: %v", urls)
	}
}

func TestLoadCSVShortRowsAreSkipped(t *testing.T) {
	path := writeCSV(t, "title,link\nonly-title\nT,https://youtu.be/c\n")

	urls, err := urlsource.LoadCSV(path, "link")
	if err != nil {
		t.Fatalf("LoadCSV returned error: %v", err)
	}
	if !slices.Equal(urls, []string{"https://youtu.be/c"}) {
		t.Fatalf("unexpected urls: %v", urls)
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := urlsource.LoadCSV(filepath.Join(t.TempDir(), "absent.csv"), "link")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !services.IsFatal(err) {
		t.Fatal("missing input should be fatal")
	}
}

func TestLoadCSVEmptyFile(t *testing.T) {
	path := writeCSV(t, "")
	if _, err := urlsource.LoadCSV(path, "link"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestDedupeKeepsFirstSeenOrder(t *testing.T) {
	got := urlsource.Dedupe([]string{"b", "a", "b", "c", "a"})
	if !slices.Equal(got, []string{"b", "a", "c"}) {
		t.Fatalf("unexpected order: %v", got)
	}
}
