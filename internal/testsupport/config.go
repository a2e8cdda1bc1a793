package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"ytharvest/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Cooldown is disabled so batch tests never sleep.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.InputCSV = filepath.Join(base, "links.csv")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Cooldown.Enabled = false
	cfgVal.Cooldown.MinSeconds = 0
	cfgVal.Cooldown.MaxSeconds = 0

	if err := os.MkdirAll(cfgVal.Paths.OutputDir, 0o755); err != nil {
		t.Fatalf("mkdir output dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStrictLicense switches the gate to strict_license with the default expected license.
func WithStrictLicense() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Gate.Policy = config.GateStrictLicense
	}
}

// WithNaming selects the output naming scheme.
func WithNaming(naming string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Download.Naming = naming
	}
}

// WithLanguages replaces the subtitle allow-list.
func WithLanguages(langs ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Subtitles.Languages = langs
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, yt-dlp and ffmpeg are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"yt-dlp", "ffmpeg"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\necho stub 1.0\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
