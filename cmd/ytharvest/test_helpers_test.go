package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ytharvest/internal/config"
	"ytharvest/internal/testsupport"
)

// fakeYtDLP mimics the yt-dlp invocations the client makes. Probes print an
// info document; downloads write <base>.mp3 and <base>.en.vtt. Videos whose
// ID starts with "r" carry a non-matching license.
const fakeYtDLP = `#!/bin/sh
out=""
probe=0
prev=""
for arg in "$@"; do
  case "$arg" in
    --version) echo 2025.01.01; exit 0 ;;
    --skip-download) probe=1 ;;
  esac
  if [ "$prev" = "--output" ]; then out="$arg"; fi
  prev="$arg"
done
id="${prev##*/}"
license="Creative Commons Attribution license (reuse allowed)"
case "$id" in
  r*) license="Standard YouTube License" ;;
esac
subs='{"en":[{"ext":"vtt","url":""}]}'
if [ "$probe" = 1 ]; then
  printf '{"id":"%s","title":"Clip %s","license":"%s","subtitles":%s}\n' "$id" "$id" "$license" "$subs"
  exit 0
fi
base="${out%".%(ext)s"}"
printf 'audio' > "$base.mp3"
printf 'WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nhello world\n' > "$base.en.vtt"
printf '{"id":"%s","title":"Clip %s","license":"%s","subtitles":%s,"requested_subtitles":{"en":{"ext":"vtt","url":"","filepath":"%s.en.vtt"}}}\n' "$id" "$id" "$license" "$subs" "$base"
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("YTHARVEST_OUTPUT_DIR", "")
	t.Setenv("YTHARVEST_COOKIE_FILE", "")

	ytdlpPath := filepath.Join(base, "bin", "yt-dlp")
	if err := os.WriteFile(ytdlpPath, []byte(fakeYtDLP), 0o755); err != nil {
		t.Fatalf("write yt-dlp stub: %v", err)
	}
	cfg.Download.YtDLPBinary = ytdlpPath

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
