package batch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ytharvest/internal/batch"
	"ytharvest/internal/harvest"
)

type step struct {
	result harvest.Result
	err    error
	panic  bool
}

type fakeProcessor struct {
	steps map[string]step
	seen  []string
}

func (f *fakeProcessor) Process(ctx context.Context, url string) (harvest.Result, error) {
	f.seen = append(f.seen, url)
	s := f.steps[url]
	if s.panic {
		panic("boom")
	}
	if s.result.URL == "" {
		s.result.URL = url
	}
	return s.result, s.err
}

type countingPacer struct {
	calls  int
	err    error
	cancel context.CancelFunc
}

func (p *countingPacer) Pause(ctx context.Context) (time.Duration, error) {
	p.calls++
	if p.cancel != nil {
		p.cancel()
		return 0, context.Canceled
	}
	return time.Second, p.err
}

var youtubeHosts = batch.HostFilter{Hosts: []string{"youtube.com/", "youtu.be/"}}

func downloaded(id string) step {
	return step{result: harvest.Result{VideoID: id, Outcome: harvest.OutcomeDownloaded, NetworkUsed: true}}
}

func TestRunContinuesAfterFailure(t *testing.T) {
	urls := []string{"https://youtu.be/aaaaaaaaaaa", "https://youtu.be/bbbbbbbbbbb", "https://youtu.be/ccccccccccc"}
	processor := &fakeProcessor{steps: map[string]step{
		urls[0]: downloaded("aaaaaaaaaaa"),
		urls[1]: {result: harvest.Result{Outcome: harvest.OutcomeFailed, NetworkUsed: true}, err: errors.New("probe failed")},
		urls[2]: {result: harvest.Result{VideoID: "ccccccccccc", Outcome: harvest.OutcomeRejected, NetworkUsed: true}},
	}}
	pacer := &countingPacer{}

	report := batch.NewDriver(processor, youtubeHosts, pacer, nil).Run(context.Background(), urls)

	if len(processor.seen) != 3 {
		t.Fatalf("expected all URLs attempted, got %v", processor.seen)
	}
	counts := report.Counts()
	if counts.Failed != 1 || counts.Downloaded != 1 || counts.Rejected != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	failed := report.Failures()
	if len(failed) != 1 || failed[0].URL != urls[1] {
		t.Fatalf("unexpected failures: %+v", failed)
	}
	if failed[0].VideoID != "bbbbbbbbbbb" {
		t.Fatalf("expected locally derived video id on failure, got %q", failed[0].VideoID)
	}
	if pacer.calls != 2 {
		t.Fatalf("expected cooldown between videos but not after the last, got %d", pacer.calls)
	}
}

func TestRunRecoversPanics(t *testing.T) {
	urls := []string{"https://youtu.be/aaaaaaaaaaa", "https://youtu.be/bbbbbbbbbbb"}
	processor := &fakeProcessor{steps: map[string]step{
		urls[0]: {panic: true},
		urls[1]: downloaded("bbbbbbbbbbb"),
	}}

	report := batch.NewDriver(processor, youtubeHosts, nil, nil).Run(context.Background(), urls)

	counts := report.Counts()
	if counts.Failed != 1 || counts.Downloaded != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	if report.Entries[0].Err == nil {
		t.Fatal("expected panic converted to error")
	}
}

func TestRunFiltersHostsWithoutCooldown(t *testing.T) {
	urls := []string{"https://vimeo.com/123", "https://youtu.be/aaaaaaaaaaa", "https://example.com/x"}
	processor := &fakeProcessor{steps: map[string]step{urls[1]: downloaded("aaaaaaaaaaa")}}
	pacer := &countingPacer{}

	report := batch.NewDriver(processor, youtubeHosts, pacer, nil).Run(context.Background(), urls)

	if len(processor.seen) != 1 {
		t.Fatalf("only the YouTube URL should be processed, got %v", processor.seen)
	}
	if counts := report.Counts(); counts.Filtered != 2 || counts.Downloaded != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	if pacer.calls != 0 {
		t.Fatalf("no cooldown expected when no allowed URL follows, got %d", pacer.calls)
	}
}

func TestRunSkipsCooldownWithoutNetwork(t *testing.T) {
	urls := []string{"https://youtu.be/aaaaaaaaaaa", "https://youtu.be/bbbbbbbbbbb"}
	processor := &fakeProcessor{steps: map[string]step{
		urls[0]: {result: harvest.Result{VideoID: "aaaaaaaaaaa", Outcome: harvest.OutcomeAlreadyDone}},
		urls[1]: downloaded("bbbbbbbbbbb"),
	}}
	pacer := &countingPacer{}

	batch.NewDriver(processor, youtubeHosts, pacer, nil).Run(context.Background(), urls)

	if pacer.calls != 0 {
		t.Fatalf("already-downloaded videos should not trigger a cooldown, got %d", pacer.calls)
	}
}

func TestRunStopsWhenCancelledDuringCooldown(t *testing.T) {
	urls := []string{"https://youtu.be/aaaaaaaaaaa", "https://youtu.be/bbbbbbbbbbb", "https://youtu.be/ccccccccccc"}
	processor := &fakeProcessor{steps: map[string]step{urls[0]: downloaded("aaaaaaaaaaa")}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pacer := &countingPacer{cancel: cancel}

	report := batch.NewDriver(processor, youtubeHosts, pacer, nil, batch.WithSessionID("sess")).Run(ctx, urls)

	if len(processor.seen) != 1 {
		t.Fatalf("expected loop to stop after cancellation, saw %v", processor.seen)
	}
	if !report.Interrupted || report.Pending != 2 {
		t.Fatalf("expected interrupted report with 2 pending, got %+v", report)
	}
	if report.SessionID != "sess" || len(report.Entries) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestHostFilter(t *testing.T) {
	tests := map[string]bool{
		"https://www.youtube.com/watch?v=x": true,
		"https://YOUTU.BE/abc":              true,
		"https://youtube.community/x":       false,
		"https://vimeo.com/1":               false,
	}
	for url, want := range tests {
		if got := youtubeHosts.Allows(url); got != want {
			t.Errorf("Allows(%q) = %v, want %v", url, got, want)
		}
	}
	if !(batch.HostFilter{}).Allows("anything") {
		t.Fatal("empty filter should admit everything")
	}
}
