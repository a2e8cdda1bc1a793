package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateInput(); err != nil {
		return err
	}
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateGate(); err != nil {
		return err
	}
	if err := c.validateCooldown(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.InputCSV != "" && c.Paths.InputCSV == c.Paths.OutputDir {
		return errors.New("paths.input_csv must not be the output directory")
	}
	return nil
}

func (c *Config) validateInput() error {
	if c.Input.LinkColumn == "" {
		return errors.New("input.link_column must be set")
	}
	if len(c.Input.AllowedHosts) == 0 {
		return errors.New("input.allowed_hosts must list at least one host")
	}
	return nil
}

func (c *Config) validateDownload() error {
	if c.Download.Retries < 0 {
		return errors.New("download.retries must be >= 0")
	}
	if c.Download.FragmentRetries < 0 {
		return errors.New("download.fragment_retries must be >= 0")
	}
	switch c.Download.Naming {
	case NamingID, NamingTitleID:
	default:
		return fmt.Errorf("download.naming must be %q or %q", NamingID, NamingTitleID)
	}
	if strings.ContainsAny(c.Download.AudioFormat, `/\ `) {
		return errors.New("download.audio_format must be a bare extension such as mp3")
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	switch c.Subtitles.Format {
	case subtitleFormatVTT, subtitleFormatSRT, subtitleFormatJSON3:
	default:
		return fmt.Errorf("subtitles.format must be one of %s, %s, %s", subtitleFormatVTT, subtitleFormatSRT, subtitleFormatJSON3)
	}
	for _, code := range c.Subtitles.Languages {
		if _, err := language.Raw.Parse(code); err != nil {
			return fmt.Errorf("subtitles.languages: %q is not a valid language tag", code)
		}
	}
	if c.Subtitles.FetchRequestsPerSecond < minimumFetchRatePerSecond {
		return fmt.Errorf("subtitles.fetch_requests_per_second must be >= %.2f", minimumFetchRatePerSecond)
	}
	return nil
}

func (c *Config) validateGate() error {
	switch c.Gate.Policy {
	case GateSubtitleLanguagePresence:
	case GateStrictLicense:
		if strings.TrimSpace(c.Gate.ExpectedLicense) == "" {
			return errors.New("gate.expected_license must be set when gate.policy is strict_license")
		}
	default:
		return fmt.Errorf("gate.policy must be %q or %q", GateSubtitleLanguagePresence, GateStrictLicense)
	}
	return nil
}

func (c *Config) validateCooldown() error {
	if c.Cooldown.MinSeconds < 0 {
		return errors.New("cooldown.min_seconds must be >= 0")
	}
	if c.Cooldown.MaxSeconds < c.Cooldown.MinSeconds {
		return errors.New("cooldown.max_seconds must be >= cooldown.min_seconds")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case logFormatConsole, logFormatJSON:
	default:
		return fmt.Errorf("logging.format must be %q or %q", logFormatConsole, logFormatJSON)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}
