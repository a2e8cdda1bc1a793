package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	InputCSV   string `toml:"input_csv"`
	OutputDir  string `toml:"output_dir"`
	CookieFile string `toml:"cookie_file"`
	LogDir     string `toml:"log_dir"`
}

// Input describes how URLs are read from the input sheet.
type Input struct {
	LinkColumn   string   `toml:"link_column"`
	AllowedHosts []string `toml:"allowed_hosts"`
}

// Download contains settings handed to yt-dlp for each video.
type Download struct {
	YtDLPBinary              string `toml:"ytdlp_binary"`
	FFmpegLocation           string `toml:"ffmpeg_location"`
	Format                   string `toml:"format"`
	AudioFormat              string `toml:"audio_format"`
	AudioQuality             string `toml:"audio_quality"`
	Retries                  int    `toml:"retries"`
	FragmentRetries          int    `toml:"fragment_retries"`
	SkipUnavailableFragments bool   `toml:"skip_unavailable_fragments"`
	Naming                   string `toml:"naming"`
}

// Subtitles contains subtitle selection and transcript settings.
type Subtitles struct {
	Languages              []string `toml:"languages"`
	Format                 string   `toml:"format"`
	IncludeAutomatic       bool     `toml:"include_automatic"`
	KeepFiles              bool     `toml:"keep_files"`
	FetchRequestsPerSecond float64  `toml:"fetch_requests_per_second"`
}

// Gate selects the per-video admission policy.
type Gate struct {
	// Policy is either "subtitle_language_presence" or "strict_license".
	Policy string `toml:"policy"`
	// ExpectedLicense must match the observed license exactly under strict_license.
	ExpectedLicense string `toml:"expected_license"`
	// LicenseCategory is recorded alongside the observed license when it matched.
	LicenseCategory string `toml:"license_category"`
}

// Cooldown bounds the randomized pause between videos, in whole seconds.
type Cooldown struct {
	Enabled    bool `toml:"enabled"`
	MinSeconds int  `toml:"min_seconds"`
	MaxSeconds int  `toml:"max_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for ytharvest.
//
// Configuration sections by concern:
//   - Paths: input sheet, output directory, cookie bundle, logs
//   - Input: required column name and accepted URL hosts
//   - Download: yt-dlp binary, audio format/quality, retry tolerance, naming
//   - Subtitles: language allow-list, format, transcript file handling
//   - Gate: license/language admission policy
//   - Cooldown: randomized delay between videos
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Input     Input     `toml:"input"`
	Download  Download  `toml:"download"`
	Subtitles Subtitles `toml:"subtitles"`
	Gate      Gate      `toml:"gate"`
	Cooldown  Cooldown  `toml:"cooldown"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("ytharvest.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequireInput reports an error when no input sheet is configured.
func (c *Config) RequireInput() error {
	if strings.TrimSpace(c.Paths.InputCSV) == "" {
		return errors.New("paths.input_csv must be set (or pass --input)")
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable yt-dlp will use for audio extraction.
func (c *Config) FFmpegBinary() string {
	location := strings.TrimSpace(c.Download.FFmpegLocation)
	if location == "" {
		return "ffmpeg"
	}
	if info, err := os.Stat(location); err == nil && info.IsDir() {
		return filepath.Join(location, "ffmpeg")
	}
	return location
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
