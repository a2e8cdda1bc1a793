package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeInput()
	c.normalizeDownload()
	c.normalizeSubtitles()
	c.normalizeGate()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.CookieFile) == "" {
		if value, ok := os.LookupEnv(envCookieFile); ok {
			c.Paths.CookieFile = value
		}
	}
	if value, ok := os.LookupEnv(envOutputDir); ok && strings.TrimSpace(value) != "" {
		c.Paths.OutputDir = value
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	var err error
	if c.Paths.InputCSV, err = expandPath(strings.TrimSpace(c.Paths.InputCSV)); err != nil {
		return fmt.Errorf("paths.input_csv: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.CookieFile, err = expandPath(strings.TrimSpace(c.Paths.CookieFile)); err != nil {
		return fmt.Errorf("paths.cookie_file: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeInput() {
	c.Input.LinkColumn = strings.TrimSpace(c.Input.LinkColumn)
	if c.Input.LinkColumn == "" {
		c.Input.LinkColumn = defaultLinkColumn
	}
	c.Input.AllowedHosts = compactStrings(c.Input.AllowedHosts, strings.ToLower)
	if len(c.Input.AllowedHosts) == 0 {
		c.Input.AllowedHosts = DefaultAllowedHosts()
	}
}

func (c *Config) normalizeDownload() {
	c.Download.YtDLPBinary = strings.TrimSpace(c.Download.YtDLPBinary)
	if c.Download.YtDLPBinary == "" {
		c.Download.YtDLPBinary = defaultYtDLPBinary
	}
	c.Download.FFmpegLocation = strings.TrimSpace(c.Download.FFmpegLocation)
	if c.Download.FFmpegLocation != "" {
		if expanded, err := expandPath(c.Download.FFmpegLocation); err == nil {
			c.Download.FFmpegLocation = expanded
		}
	}
	c.Download.Format = strings.TrimSpace(c.Download.Format)
	if c.Download.Format == "" {
		c.Download.Format = defaultDownloadFormat
	}
	c.Download.AudioFormat = strings.ToLower(strings.TrimSpace(c.Download.AudioFormat))
	if c.Download.AudioFormat == "" {
		c.Download.AudioFormat = defaultAudioFormat
	}
	c.Download.AudioQuality = strings.TrimSpace(c.Download.AudioQuality)
	if c.Download.AudioQuality == "" {
		c.Download.AudioQuality = defaultAudioQuality
	}
	c.Download.Naming = strings.ToLower(strings.TrimSpace(c.Download.Naming))
	if c.Download.Naming == "" {
		c.Download.Naming = defaultNaming
	}
}

func (c *Config) normalizeSubtitles() {
	c.Subtitles.Languages = compactStrings(c.Subtitles.Languages, canonicalLanguage)
	c.Subtitles.Format = strings.ToLower(strings.TrimSpace(c.Subtitles.Format))
	if c.Subtitles.Format == "" {
		c.Subtitles.Format = defaultSubtitleFormat
	}
	if c.Subtitles.FetchRequestsPerSecond == 0 {
		c.Subtitles.FetchRequestsPerSecond = defaultFetchRate
	}
}

func (c *Config) normalizeGate() {
	c.Gate.Policy = strings.ToLower(strings.TrimSpace(c.Gate.Policy))
	if c.Gate.Policy == "" {
		c.Gate.Policy = defaultGatePolicy
	}
	if strings.TrimSpace(c.Gate.ExpectedLicense) == "" {
		c.Gate.ExpectedLicense = defaultExpectedLicense
	}
	c.Gate.LicenseCategory = strings.TrimSpace(c.Gate.LicenseCategory)
	if c.Gate.LicenseCategory == "" {
		c.Gate.LicenseCategory = defaultLicenseCategory
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// compactStrings trims entries, drops blanks and case-insensitive duplicates,
// and applies an optional transform. Order is preserved.
func compactStrings(values []string, transform func(string) string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if transform != nil {
			value = transform(value)
		}
		key := strings.ToLower(value)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, value)
	}
	return out
}

// canonicalLanguage fixes tag casing (zh-hans -> zh-Hans) without applying
// deprecated-code replacements, so codes keep matching YouTube catalog keys.
// Malformed tags are returned unchanged and rejected by validation.
func canonicalLanguage(code string) string {
	tag, err := language.Raw.Parse(code)
	if err != nil {
		return code
	}
	return tag.String()
}
