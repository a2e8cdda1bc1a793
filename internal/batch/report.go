package batch

import (
	"time"

	"ytharvest/internal/harvest"
)

// Entry records how one input URL was handled.
type Entry struct {
	Index     int
	URL       string
	VideoID   string
	Outcome   harvest.Outcome
	Reason    string
	Languages []string
	Elapsed   time.Duration
	Cooldown  time.Duration
	Err       error
}

// Report summarises a batch run.
type Report struct {
	SessionID   string
	StartedAt   time.Time
	FinishedAt  time.Time
	Entries     []Entry
	Interrupted bool
	// Pending counts URLs never attempted because the run was interrupted.
	Pending int
}

// Counts tallies outcomes.
type Counts struct {
	Total      int
	Downloaded int
	Already    int
	Rejected   int
	Filtered   int
	Failed     int
}

// Counts tallies the report's entries by outcome.
func (r Report) Counts() Counts {
	counts := Counts{Total: len(r.Entries)}
	for _, entry := range r.Entries {
		switch entry.Outcome {
		case harvest.OutcomeDownloaded:
			counts.Downloaded++
		case harvest.OutcomeAlreadyDone:
			counts.Already++
		case harvest.OutcomeRejected:
			counts.Rejected++
		case harvest.OutcomeFiltered:
			counts.Filtered++
		case harvest.OutcomeFailed:
			counts.Failed++
		}
	}
	return counts
}

// Failures returns the failed entries in input order.
func (r Report) Failures() []Entry {
	var failed []Entry
	for _, entry := range r.Entries {
		if entry.Outcome == harvest.OutcomeFailed {
			failed = append(failed, entry)
		}
	}
	return failed
}

// Duration is the wall-clock time of the run.
func (r Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
