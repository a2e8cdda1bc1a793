package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"ytharvest/internal/harvest"
	"ytharvest/internal/logging"
	"ytharvest/internal/services"
	"ytharvest/internal/services/ytdlp"
)

const component = "batch"

// Processor handles a single URL.
type Processor interface {
	Process(ctx context.Context, url string) (harvest.Result, error)
}

// HostFilter admits URLs containing any of Hosts as a substring.
type HostFilter struct {
	Hosts []string
}

// Allows reports whether url matches one of the hosts. An empty filter admits everything.
func (f HostFilter) Allows(url string) bool {
	if len(f.Hosts) == 0 {
		return true
	}
	lower := strings.ToLower(url)
	for _, host := range f.Hosts {
		if host = strings.ToLower(strings.TrimSpace(host)); host != "" && strings.Contains(lower, host) {
			return true
		}
	}
	return false
}

// Driver runs the sequential batch loop.
type Driver struct {
	processor Processor
	filter    HostFilter
	pacer     Pacer
	logger    *slog.Logger
	sessionID string
	now       func() time.Time
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithSessionID stamps the report with the run's session identifier.
func WithSessionID(id string) DriverOption {
	return func(d *Driver) {
		d.sessionID = id
	}
}

// NewDriver constructs a driver. A nil pacer disables cooldowns.
func NewDriver(processor Processor, filter HostFilter, pacer Pacer, logger *slog.Logger, opts ...DriverOption) *Driver {
	if pacer == nil {
		pacer = NoCooldown{}
	}
	d := &Driver{
		processor: processor,
		filter:    filter,
		pacer:     pacer,
		logger:    logging.NewComponentLogger(logger, component),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run processes urls in order. Per-video failures never stop the loop; only
// context cancellation does, and then only between videos.
func (d *Driver) Run(ctx context.Context, urls []string) Report {
	report := Report{SessionID: d.sessionID, StartedAt: d.now()}
	total := len(urls)
	d.logger.Info("batch started", logging.Int("urls", total))

	for i, url := range urls {
		if ctx.Err() != nil {
			report.Interrupted = true
			report.Pending = total - i
			break
		}
		entry := Entry{Index: i + 1, URL: url}
		progress := fmt.Sprintf("%d/%d", i+1, total)

		if !d.filter.Allows(url) {
			entry.Outcome = harvest.OutcomeFiltered
			entry.Reason = "host not allowed"
			d.logger.Info("skipping url; host not allowed",
				logging.String("progress", progress),
				logging.String(logging.FieldSourceURL, url),
			)
			report.Entries = append(report.Entries, entry)
			continue
		}

		d.logger.Info("processing url",
			logging.String("progress", progress),
			logging.String(logging.FieldSourceURL, url),
		)
		started := d.now()
		result, err := d.process(ctx, url)
		entry.Elapsed = d.now().Sub(started)
		entry.VideoID = result.VideoID
		entry.Outcome = result.Outcome
		entry.Reason = result.Reason
		entry.Languages = result.Languages

		if err != nil {
			entry.Outcome = harvest.OutcomeFailed
			entry.Err = err
			entry.Reason = err.Error()
			logging.ErrorWithContext(d.logger, "video failed", "video_failed",
				logging.String("progress", progress),
				logging.String(logging.FieldSourceURL, url),
				logging.String(logging.FieldVideoID, result.VideoID),
				logging.String("error_class", services.Classify(err)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "rerun the batch; completed videos are skipped"),
			)
		}

		if result.NetworkUsed && d.hasPendingWork(urls[i+1:]) {
			pause, pauseErr := d.pacer.Pause(ctx)
			entry.Cooldown = pause
			if pause > 0 {
				d.logger.Info("cooldown finished", logging.Duration("pause", pause))
			}
			if pauseErr != nil {
				report.Entries = append(report.Entries, entry)
				report.Interrupted = true
				report.Pending = total - i - 1
				break
			}
		}
		report.Entries = append(report.Entries, entry)
	}

	report.FinishedAt = d.now()
	counts := report.Counts()
	d.logger.Info("batch finished",
		logging.Int("downloaded", counts.Downloaded),
		logging.Int("already_downloaded", counts.Already),
		logging.Int("rejected", counts.Rejected),
		logging.Int("filtered", counts.Filtered),
		logging.Int("failed", counts.Failed),
		logging.Bool("interrupted", report.Interrupted),
		logging.Duration("elapsed", report.Duration()),
	)
	return report
}

// process calls the processor, converting panics into errors and filling in
// a locally derived video ID when the processor returned none.
func (d *Driver) process(ctx context.Context, url string) (result harvest.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Debug("recovered panic", logging.String("stack", string(debug.Stack())))
			result = harvest.Result{URL: url, Outcome: harvest.OutcomeFailed, NetworkUsed: true}
			err = fmt.Errorf("panic while processing: %v", r)
		}
		if result.VideoID == "" {
			result.VideoID, _ = ytdlp.ExtractVideoID(url)
		}
	}()
	return d.processor.Process(ctx, url)
}

func (d *Driver) hasPendingWork(rest []string) bool {
	for _, url := range rest {
		if d.filter.Allows(url) {
			return true
		}
	}
	return false
}
