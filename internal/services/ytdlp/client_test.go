package ytdlp_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"ytharvest/internal/services"
	"ytharvest/internal/services/ytdlp"
)

const sampleInfo = `{"id":"dQw4w9WgXcQ","title":"Sample Talk","uploader":"Uploader","channel_id":"UC123","upload_date":"20240102","duration":125,"view_count":42,"like_count":null,"license":"Creative Commons Attribution license (reuse allowed)","description":"desc","subtitles":{"en":[{"ext":"vtt","url":"https://example.com/en.vtt"}],"fr":[{"ext":"vtt","url":"https://example.com/fr.vtt"}]},"automatic_captions":{"de":[{"ext":"vtt","url":"https://example.com/de.vtt"}]},"requested_subtitles":{"en":{"ext":"vtt","url":"https://example.com/en.vtt","filepath":"/out/dQw4w9WgXcQ.en.vtt"}},"requested_downloads":[{"filepath":"/out/dQw4w9WgXcQ.mp3","ext":"mp3"}]}`

type stubExecutor struct {
	stdout []string
	stderr []string
	err    error
	calls  int
	binary string
	args   [][]string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onStdout, onStderr func(string)) error {
	s.calls++
	s.binary = binary
	s.args = append(s.args, append([]string(nil), args...))
	for _, line := range s.stdout {
		onStdout(line)
	}
	for _, line := range s.stderr {
		onStderr(line)
	}
	return s.err
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := ytdlp.New("  "); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestProbeParsesInfo(t *testing.T) {
	exec := &stubExecutor{stdout: []string{"[youtube] noise", sampleInfo}}
	client, err := ytdlp.New("yt-dlp", ytdlp.WithExecutor(exec), ytdlp.WithCookieFile("/tmp/cookies.txt"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	info, err := client.Probe(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if info.ID != "dQw4w9WgXcQ" || info.Title != "Sample Talk" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.ViewCount == nil || *info.ViewCount != 42 {
		t.Fatalf("unexpected view count: %v", info.ViewCount)
	}
	if info.LikeCount != nil {
		t.Fatalf("expected nil like count, got %v", *info.LikeCount)
	}
	if got := info.ManualLanguages(); !slices.Equal(got, []string{"en", "fr"}) {
		t.Fatalf("unexpected manual languages: %v", got)
	}
	if info.AudioPath() != "/out/dQw4w9WgXcQ.mp3" {
		t.Fatalf("unexpected audio path: %q", info.AudioPath())
	}

	args := exec.args[0]
	for _, want := range []string{"--dump-single-json", "--skip-download", "--no-playlist"} {
		if !slices.Contains(args, want) {
			t.Fatalf("expected %s in args %v", want, args)
		}
	}
	if idx := slices.Index(args, "--cookies"); idx < 0 || args[idx+1] != "/tmp/cookies.txt" {
		t.Fatalf("expected cookie file in args %v", args)
	}
	if args[len(args)-1] != "https://youtu.be/dQw4w9WgXcQ" {
		t.Fatalf("expected url as final arg, got %v", args)
	}
}

func TestDownloadBuildsArguments(t *testing.T) {
	exec := &stubExecutor{stdout: []string{sampleInfo}}
	client, err := ytdlp.New("yt-dlp", ytdlp.WithExecutor(exec), ytdlp.WithFFmpegLocation("/opt/ffmpeg"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = client.Download(context.Background(), "https://youtu.be/dQw4w9WgXcQ", ytdlp.DownloadRequest{
		OutputBase:               "/out/100% Talk_dQw4w9WgXcQ",
		AudioFormat:              "mp3",
		AudioQuality:             "192",
		Retries:                  3,
		FragmentRetries:          3,
		SkipUnavailableFragments: true,
		SubtitleLanguages:        []string{"en", "fr", "en"},
		SubtitleFormat:           "vtt",
		IncludeAutomatic:         true,
	})
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}

	args := exec.args[0]
	expectPair := func(flag, value string) {
		t.Helper()
		idx := slices.Index(args, flag)
		if idx < 0 || idx+1 >= len(args) || args[idx+1] != value {
			t.Fatalf("expected %s %s in args %v", flag, value, args)
		}
	}
	expectPair("--format", "bestaudio/best")
	expectPair("--audio-format", "mp3")
	expectPair("--audio-quality", "192K")
	expectPair("--retries", "3")
	expectPair("--fragment-retries", "3")
	expectPair("--output", "/out/100%% Talk_dQw4w9WgXcQ.%(ext)s")
	expectPair("--sub-langs", "en,fr")
	expectPair("--sub-format", "vtt")
	expectPair("--ffmpeg-location", "/opt/ffmpeg")
	for _, flag := range []string{"--extract-audio", "--write-subs", "--write-auto-subs", "--skip-unavailable-fragments", "--no-simulate", "--dump-single-json"} {
		if !slices.Contains(args, flag) {
			t.Fatalf("expected %s in args %v", flag, args)
		}
	}
}

func TestDownloadWithoutLanguagesSkipsSubtitleFlags(t *testing.T) {
	exec := &stubExecutor{stdout: []string{sampleInfo}}
	client, _ := ytdlp.New("yt-dlp", ytdlp.WithExecutor(exec))

	if _, err := client.Download(context.Background(), "https://youtu.be/dQw4w9WgXcQ", ytdlp.DownloadRequest{OutputBase: "/out/x"}); err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	for _, flag := range []string{"--write-subs", "--write-auto-subs", "--sub-langs", "--cookies"} {
		if slices.Contains(exec.args[0], flag) {
			t.Fatalf("did not expect %s in args %v", flag, exec.args[0])
		}
	}
}

func TestDownloadRequiresOutputBase(t *testing.T) {
	exec := &stubExecutor{}
	client, _ := ytdlp.New("yt-dlp", ytdlp.WithExecutor(exec))
	_, err := client.Download(context.Background(), "https://youtu.be/x", ytdlp.DownloadRequest{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if exec.calls != 0 {
		t.Fatalf("executor should not run, got %d calls", exec.calls)
	}
}

func TestExecutorFailureIncludesStderr(t *testing.T) {
	exec := &stubExecutor{
		stderr: []string{"WARNING: something", "ERROR: [youtube] abc: Video unavailable"},
		err:    errors.New("exit status 1"),
	}
	client, _ := ytdlp.New("yt-dlp", ytdlp.WithExecutor(exec))

	_, err := client.Probe(context.Background(), "https://youtu.be/abc")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Video unavailable") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
	if strings.Contains(err.Error(), "WARNING") {
		t.Fatalf("expected only ERROR lines when present, got %v", err)
	}
}

func TestProbeRejectsMissingJSON(t *testing.T) {
	client, _ := ytdlp.New("yt-dlp", ytdlp.WithExecutor(&stubExecutor{stdout: []string{"not json"}}))
	if _, err := client.Probe(context.Background(), "https://youtu.be/abc"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}
