package config

const (
	defaultConfigPath         = "~/.config/ytharvest/config.toml"
	defaultOutputDir          = "~/ytharvest/output"
	defaultLogDir             = "~/.local/share/ytharvest/logs"
	defaultLinkColumn         = "link"
	defaultYtDLPBinary        = "yt-dlp"
	defaultDownloadFormat     = "bestaudio/best"
	defaultAudioFormat        = "mp3"
	defaultAudioQuality       = "192"
	defaultRetries            = 3
	defaultFragmentRetries    = 3
	defaultSubtitleFormat     = "vtt"
	defaultFetchRate          = 1.0
	defaultExpectedLicense    = "Creative Commons Attribution license (reuse allowed)"
	defaultLicenseCategory    = "CC"
	defaultCooldownMin        = 15
	defaultCooldownMax        = 30
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultNaming             = NamingID
	defaultGatePolicy         = GateSubtitleLanguagePresence
	envCookieFile             = "YTHARVEST_COOKIE_FILE"
	envOutputDir              = "YTHARVEST_OUTPUT_DIR"
	subtitleFormatVTT         = "vtt"
	subtitleFormatSRT         = "srt"
	subtitleFormatJSON3       = "json3"
	logFormatJSON             = "json"
	logFormatConsole          = "console"
	minimumFetchRatePerSecond = 0.01
)

// Output naming schemes.
const (
	// NamingID names outputs <id>.mp3 and <id>.json.
	NamingID = "id"
	// NamingTitleID names outputs <title>_<id>.mp3 and <title>_<id>_metadata.json.
	NamingTitleID = "title_id"
)

// Gate policies.
const (
	GateSubtitleLanguagePresence = "subtitle_language_presence"
	GateStrictLicense            = "strict_license"
)

// DefaultSubtitleLanguages lists the subtitle languages requested when the
// configuration does not override them.
func DefaultSubtitleLanguages() []string {
	return []string{"en", "es", "fr", "de", "hi", "it", "ja", "zh-Hans", "zh-Hant", "pt", "ar", "ru"}
}

// DefaultAllowedHosts lists the URL substrings accepted by the batch driver.
func DefaultAllowedHosts() []string {
	return []string{"youtube.com/", "youtu.be/"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Input: Input{
			LinkColumn:   defaultLinkColumn,
			AllowedHosts: DefaultAllowedHosts(),
		},
		Download: Download{
			YtDLPBinary:              defaultYtDLPBinary,
			Format:                   defaultDownloadFormat,
			AudioFormat:              defaultAudioFormat,
			AudioQuality:             defaultAudioQuality,
			Retries:                  defaultRetries,
			FragmentRetries:          defaultFragmentRetries,
			SkipUnavailableFragments: true,
			Naming:                   defaultNaming,
		},
		Subtitles: Subtitles{
			Languages:              DefaultSubtitleLanguages(),
			Format:                 defaultSubtitleFormat,
			KeepFiles:              true,
			FetchRequestsPerSecond: defaultFetchRate,
		},
		Gate: Gate{
			Policy:          defaultGatePolicy,
			ExpectedLicense: defaultExpectedLicense,
			LicenseCategory: defaultLicenseCategory,
		},
		Cooldown: Cooldown{
			Enabled:    true,
			MinSeconds: defaultCooldownMin,
			MaxSeconds: defaultCooldownMax,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
