package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ytharvest/internal/config"
	"ytharvest/internal/fileutil"
	"ytharvest/internal/gate"
	"ytharvest/internal/logging"
	"ytharvest/internal/services"
	"ytharvest/internal/services/ytdlp"
	"ytharvest/internal/subtitles"
)

const component = "harvest"

// Outcome classifies how a URL was handled.
type Outcome string

const (
	OutcomeDownloaded  Outcome = "downloaded"
	OutcomeAlreadyDone Outcome = "already_downloaded"
	OutcomeRejected    Outcome = "rejected"
	OutcomeFiltered    Outcome = "filtered"
	OutcomeFailed      Outcome = "failed"
)

// Result summarises one processed URL.
type Result struct {
	URL          string
	VideoID      string
	Outcome      Outcome
	Reason       string
	Languages    []string
	AudioPath    string
	MetadataPath string
	// NetworkUsed is set once yt-dlp has been invoked for this URL.
	NetworkUsed bool
}

// Downloader is the retrieval capability used by the orchestrator.
type Downloader interface {
	Probe(ctx context.Context, url string) (ytdlp.VideoInfo, error)
	Download(ctx context.Context, url string, req ytdlp.DownloadRequest) (ytdlp.VideoInfo, error)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the time source used for harvested_at.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithFileWriter overrides how records are persisted (primarily for tests).
func WithFileWriter(write func(path string, data []byte, perm os.FileMode) error) Option {
	return func(o *Orchestrator) {
		if write != nil {
			o.writeFile = write
		}
	}
}

// Orchestrator runs the per-video pipeline.
type Orchestrator struct {
	layout          Layout
	download        config.Download
	subs            config.Subtitles
	licenseCategory string
	downloader      Downloader
	gate            gate.Gate
	fetcher         ytdlp.SubtitleFetcher
	logger          *slog.Logger
	now             func() time.Time
	writeFile       func(path string, data []byte, perm os.FileMode) error
}

// New constructs an orchestrator. fetcher may be nil, in which case subtitles
// yt-dlp did not write to disk are skipped.
func New(cfg *config.Config, downloader Downloader, g gate.Gate, fetcher ytdlp.SubtitleFetcher, logger *slog.Logger, opts ...Option) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.New("harvest: config required")
	}
	if downloader == nil {
		return nil, errors.New("harvest: downloader required")
	}
	if g == nil {
		return nil, errors.New("harvest: gate required")
	}
	o := &Orchestrator{
		layout:          NewLayout(cfg.Paths.OutputDir, cfg.Download.Naming, cfg.Download.AudioFormat),
		download:        cfg.Download,
		subs:            cfg.Subtitles,
		licenseCategory: cfg.Gate.LicenseCategory,
		downloader:      downloader,
		gate:            g,
		fetcher:         fetcher,
		logger:          logging.NewComponentLogger(logger, component),
		now:             time.Now,
		writeFile:       fileutil.WriteFileAtomic,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Layout exposes the output naming used by this orchestrator.
func (o *Orchestrator) Layout() Layout {
	return o.layout
}

// Process handles one URL. A returned error means the video failed; the
// Result still carries whatever was learned (URL, partial video ID).
func (o *Orchestrator) Process(ctx context.Context, url string) (Result, error) {
	result := Result{URL: url}
	ctx = services.WithSourceURL(ctx, url)

	if id, ok := ytdlp.ExtractVideoID(url); ok {
		result.VideoID = id
		if done, ok := o.alreadyDone(ctx, &result); ok {
			return done, nil
		}
	}

	result.NetworkUsed = true
	info, err := o.downloader.Probe(ctx, url)
	if err != nil {
		return o.fail(result, "probe metadata", err)
	}
	result.VideoID = info.ID
	ctx = services.WithVideoID(ctx, info.ID)
	logger := logging.WithContext(ctx, o.logger)

	if done, ok := o.alreadyDone(ctx, &result); ok {
		return done, nil
	}

	decision := o.gate.Evaluate(info)
	result.Reason = decision.Reason
	if !decision.Proceed {
		logger.Info("video rejected by gate",
			logging.Args(logging.DecisionAttrs(o.gate.Name(), "rejected", decision.Reason)...)...,
		)
		result.Outcome = OutcomeRejected
		return result, nil
	}
	logger.Info("video admitted",
		logging.Args(append(logging.DecisionAttrs(o.gate.Name(), "admitted", decision.Reason),
			logging.String("title", info.Title),
			logging.Bool("audio_only", decision.AudioOnly),
		)...)...,
	)

	base := o.layout.Base(info.ID, info.Title)
	downloaded, err := o.downloader.Download(ctx, url, o.downloadRequest(base, decision))
	if err != nil {
		return o.fail(result, "download", err)
	}

	audioPath, err := o.locateAudio(info, downloaded)
	if err != nil {
		return o.fail(result, "verify audio", err)
	}

	transcripts, subtitleFiles := o.resolveTranscripts(ctx, base, downloaded)
	if !o.subs.KeepFiles {
		if err := fileutil.RemoveFiles(subtitleFiles...); err != nil {
			logging.WarnWithContext(logger, "failed to remove subtitle files", "subtitle_cleanup_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "raw subtitle files remain in the output directory"),
			)
		}
	}

	record := buildRecord(recordInput{
		info:            mergeInfo(info, downloaded),
		sourceURL:       url,
		audioFile:       filepath.Base(audioPath),
		gatePolicy:      o.gate.Name(),
		decision:        decision,
		licenseCategory: o.licenseCategory,
		transcripts:     transcripts,
		harvestedAt:     o.now(),
	})
	data, err := record.Encode()
	if err != nil {
		return o.fail(result, "encode record", err)
	}
	metadataPath := o.layout.MetadataPath(info.ID, info.Title)
	if err := o.writeFile(metadataPath, data, 0o644); err != nil {
		return o.fail(result, "write record", err)
	}

	result.Outcome = OutcomeDownloaded
	result.Languages = sortedKeys(transcripts)
	result.AudioPath = audioPath
	result.MetadataPath = metadataPath
	logger.Info("saved audio and record",
		logging.String("audio", filepath.Base(audioPath)),
		logging.String("record", filepath.Base(metadataPath)),
		logging.Strings("transcripts", result.Languages),
	)
	return result, nil
}

func (o *Orchestrator) alreadyDone(ctx context.Context, result *Result) (Result, bool) {
	audio, metadata, ok := o.layout.Complete(result.VideoID)
	if !ok {
		return Result{}, false
	}
	logging.WithContext(services.WithVideoID(ctx, result.VideoID), o.logger).Info("skipping video; already downloaded",
		logging.String("record", filepath.Base(metadata)),
	)
	done := *result
	done.Outcome = OutcomeAlreadyDone
	done.AudioPath = audio
	done.MetadataPath = metadata
	return done, true
}

func (o *Orchestrator) fail(result Result, operation string, err error) (Result, error) {
	result.Outcome = OutcomeFailed
	if !errors.Is(err, context.Canceled) {
		err = fmt.Errorf("%s: %w", operation, err)
	}
	result.Reason = err.Error()
	return result, err
}

func (o *Orchestrator) downloadRequest(base string, decision gate.Decision) ytdlp.DownloadRequest {
	return ytdlp.DownloadRequest{
		OutputBase:               base,
		Format:                   o.download.Format,
		AudioFormat:              o.download.AudioFormat,
		AudioQuality:             o.download.AudioQuality,
		Retries:                  o.download.Retries,
		FragmentRetries:          o.download.FragmentRetries,
		SkipUnavailableFragments: o.download.SkipUnavailableFragments,
		SubtitleLanguages:        decision.SubtitleLanguages,
		SubtitleFormat:           o.subs.Format,
		IncludeAutomatic:         o.subs.IncludeAutomatic,
	}
}

func (o *Orchestrator) locateAudio(probed, downloaded ytdlp.VideoInfo) (string, error) {
	expected := o.layout.AudioPath(probed.ID, probed.Title)
	if fileutil.IsRegularFile(expected) {
		return expected, nil
	}
	if reported := downloaded.AudioPath(); reported != "" && fileutil.IsRegularFile(reported) {
		return reported, nil
	}
	return "", services.Wrap(services.ErrExternalTool, component, "verify audio",
		fmt.Sprintf("yt-dlp reported success but %s is missing", filepath.Base(expected)), nil)
}

// resolveTranscripts decodes every requested subtitle that is also in the
// video's catalog. Failures are isolated to their language. It returns the
// transcripts and the local subtitle files that were read.
func (o *Orchestrator) resolveTranscripts(ctx context.Context, base string, info ytdlp.VideoInfo) (map[string]string, []string) {
	logger := logging.WithContext(ctx, o.logger)
	transcripts := make(map[string]string)
	var files []string

	for _, lang := range sortedKeys(info.RequestedSubtitles) {
		if !info.HasSubtitle(lang, o.subs.IncludeAutomatic) {
			logger.Debug("skipping subtitle outside catalog", logging.String("language", lang))
			continue
		}
		requested := info.RequestedSubtitles[lang]

		text, path, err := o.readSubtitle(ctx, base, lang, requested)
		if path != "" {
			files = append(files, path)
		}
		if err != nil {
			logging.WarnWithContext(logger, "subtitle unavailable", "subtitle_fetch_failed",
				logging.String("language", lang),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check cookies or rerun later"),
				logging.String(logging.FieldImpact, "transcript omitted for this language"),
			)
			continue
		}
		if text == "" {
			logger.Debug("subtitle produced no text", logging.String("language", lang))
			continue
		}
		transcripts[lang] = text
	}
	return transcripts, files
}

func (o *Orchestrator) readSubtitle(ctx context.Context, base, lang string, requested ytdlp.RequestedSubtitle) (text, localPath string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode %s subtitle: %v", lang, r)
		}
	}()

	path := strings.TrimSpace(requested.Filepath)
	if path == "" || !fileutil.IsRegularFile(path) {
		path, _ = subtitles.LocateLocal(base, lang, requested.Ext)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", path, fmt.Errorf("read subtitle file: %w", err)
		}
		return subtitles.Decode(subtitles.FileFormat(path), toValidUTF8(data)), path, nil
	}

	if o.fetcher == nil || strings.TrimSpace(requested.URL) == "" {
		return "", "", services.Wrap(services.ErrNotFound, component, "locate subtitle", "no local file and no remote url", nil)
	}
	data, err := o.fetcher.Fetch(ctx, requested.URL)
	if err != nil {
		return "", "", err
	}
	return subtitles.Decode(subtitles.ParseFormat(requested.Ext), toValidUTF8(data)), "", nil
}

// mergeInfo prefers post-download metadata and fills gaps from the probe.
func mergeInfo(probed, downloaded ytdlp.VideoInfo) ytdlp.VideoInfo {
	merged := downloaded
	if merged.ID == "" {
		merged.ID = probed.ID
	}
	if merged.Title == "" {
		merged.Title = probed.Title
	}
	if merged.License == "" {
		merged.License = probed.License
	}
	if merged.Description == "" {
		merged.Description = probed.Description
	}
	if merged.Duration == 0 {
		merged.Duration = probed.Duration
	}
	if merged.Uploader == "" {
		merged.Uploader = probed.Uploader
	}
	if merged.ChannelID == "" {
		merged.ChannelID = probed.ChannelID
	}
	if merged.UploadDate == "" {
		merged.UploadDate = probed.UploadDate
	}
	if merged.ViewCount == nil {
		merged.ViewCount = probed.ViewCount
	}
	if merged.LikeCount == nil {
		merged.LikeCount = probed.LikeCount
	}
	return merged
}

func toValidUTF8(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}

func sortedKeys[T any](m map[string]T) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
