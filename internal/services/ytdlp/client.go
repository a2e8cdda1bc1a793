package ytdlp

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/alessio/shellescape"

	"ytharvest/internal/logging"
	"ytharvest/internal/services"
)

const (
	component     = "ytdlp"
	stderrTailLen = 8
)

var (
	errNoInfoJSON = errors.New("yt-dlp printed no info JSON")
	errMissingID  = errors.New("yt-dlp info JSON has no id")
)

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithCookieFile passes a Netscape cookie bundle to every invocation.
func WithCookieFile(path string) Option {
	return func(c *Client) {
		c.cookieFile = strings.TrimSpace(path)
	}
}

// WithFFmpegLocation points yt-dlp at a specific ffmpeg binary or directory.
func WithFFmpegLocation(path string) Option {
	return func(c *Client) {
		c.ffmpegLocation = strings.TrimSpace(path)
	}
}

// WithLogger attaches a logger used for command tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary         string
	cookieFile     string
	ffmpegLocation string
	exec           Executor
	logger         *slog.Logger
}

// New constructs a yt-dlp client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	client := &Client{
		binary: binary,
		exec:   commandExecutor{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, component)
	return client, nil
}

// DownloadRequest describes a single audio + subtitle download.
type DownloadRequest struct {
	// OutputBase is the literal destination path without extension. yt-dlp
	// appends .<ext> for audio and .<lang>.<ext> for subtitles.
	OutputBase               string
	Format                   string
	AudioFormat              string
	AudioQuality             string
	Retries                  int
	FragmentRetries          int
	SkipUnavailableFragments bool
	SubtitleLanguages        []string
	SubtitleFormat           string
	IncludeAutomatic         bool
}

// Probe reads the video's info JSON without downloading any media.
func (c *Client) Probe(ctx context.Context, url string) (VideoInfo, error) {
	args := []string{"--dump-single-json", "--skip-download", "--no-playlist", "--no-warnings"}
	args = append(args, c.commonArgs()...)
	args = append(args, "--", url)

	info, err := c.runForInfo(ctx, "probe", args)
	if err != nil {
		return VideoInfo{}, err
	}
	return info, nil
}

// Download fetches the best audio stream, converts it, writes the requested
// subtitle tracks, and returns the post-download info JSON.
func (c *Client) Download(ctx context.Context, url string, req DownloadRequest) (VideoInfo, error) {
	if strings.TrimSpace(req.OutputBase) == "" {
		return VideoInfo{}, services.Wrap(services.ErrValidation, component, "download", "output base required", nil)
	}
	args := buildDownloadArgs(req)
	args = append(args, c.commonArgs()...)
	args = append(args, "--", url)

	return c.runForInfo(ctx, "download", args)
}

func buildDownloadArgs(req DownloadRequest) []string {
	format := firstNonEmpty(req.Format, "bestaudio/best")
	audioFormat := firstNonEmpty(req.AudioFormat, "mp3")

	args := []string{
		"--no-playlist",
		"--no-progress",
		"--format", format,
		"--extract-audio",
		"--audio-format", audioFormat,
		"--audio-quality", audioQualityArg(req.AudioQuality),
		"--retries", strconv.Itoa(max(req.Retries, 0)),
		"--fragment-retries", strconv.Itoa(max(req.FragmentRetries, 0)),
	}
	if req.SkipUnavailableFragments {
		args = append(args, "--skip-unavailable-fragments")
	} else {
		args = append(args, "--abort-on-unavailable-fragments")
	}
	args = append(args, "--output", outputTemplate(req.OutputBase))

	if langs := compactLanguages(req.SubtitleLanguages); len(langs) > 0 {
		args = append(args,
			"--write-subs",
			"--sub-langs", strings.Join(langs, ","),
			"--sub-format", firstNonEmpty(req.SubtitleFormat, "vtt"),
		)
		if req.IncludeAutomatic {
			args = append(args, "--write-auto-subs")
		}
	}

	return append(args, "--dump-single-json", "--no-simulate")
}

func (c *Client) commonArgs() []string {
	var args []string
	if c.cookieFile != "" {
		args = append(args, "--cookies", c.cookieFile)
	}
	if c.ffmpegLocation != "" {
		args = append(args, "--ffmpeg-location", c.ffmpegLocation)
	}
	return args
}

func (c *Client) runForInfo(ctx context.Context, operation string, args []string) (VideoInfo, error) {
	logger := logging.WithContext(ctx, c.logger)
	logger.Debug("running yt-dlp",
		logging.String("operation", operation),
		logging.String("command", shellescape.QuoteCommand(append([]string{c.binary}, args...))),
	)

	var (
		mu     sync.Mutex
		stdout []string
		tail   []string
	)
	onStdout := func(line string) {
		mu.Lock()
		stdout = append(stdout, line)
		mu.Unlock()
	}
	onStderr := func(line string) {
		line = strings.TrimSpace(line)
		if line == "" {
			return
		}
		logger.Debug("yt-dlp stderr", logging.String("line", line))
		mu.Lock()
		tail = append(tail, line)
		if len(tail) > stderrTailLen {
			tail = tail[len(tail)-stderrTailLen:]
		}
		mu.Unlock()
	}

	if err := c.exec.Run(ctx, c.binary, args, onStdout, onStderr); err != nil {
		if ctx.Err() != nil {
			return VideoInfo{}, ctx.Err()
		}
		return VideoInfo{}, services.Wrap(services.ErrExternalTool, component, operation, stderrSummary(tail), err)
	}

	info, err := ParseInfo(stdout)
	if err != nil {
		return VideoInfo{}, services.Wrap(services.ErrExternalTool, component, operation, "decode info json", err)
	}
	return info, nil
}

// stderrSummary keeps the ERROR lines when yt-dlp printed any, otherwise the tail.
func stderrSummary(lines []string) string {
	var errorsOnly []string
	for _, line := range lines {
		if strings.HasPrefix(line, "ERROR:") {
			errorsOnly = append(errorsOnly, line)
		}
	}
	if len(errorsOnly) > 0 {
		lines = errorsOnly
	}
	return strings.Join(lines, " | ")
}

// outputTemplate escapes literal percent signs so titles cannot inject
// template fields.
func outputTemplate(base string) string {
	return strings.ReplaceAll(base, "%", "%%") + ".%(ext)s"
}

// audioQualityArg turns a bare bitrate like "192" into "192K". Values 0-10
// are VBR levels and pass through unchanged.
func audioQualityArg(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "192K"
	}
	if n, err := strconv.Atoi(value); err == nil && n > 10 {
		return value + "K"
	}
	return value
}

func compactLanguages(langs []string) []string {
	out := make([]string, 0, len(langs))
	seen := make(map[string]struct{}, len(langs))
	for _, lang := range langs {
		lang = strings.TrimSpace(lang)
		if lang == "" {
			continue
		}
		if _, ok := seen[lang]; ok {
			continue
		}
		seen[lang] = struct{}{}
		out = append(out, lang)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
