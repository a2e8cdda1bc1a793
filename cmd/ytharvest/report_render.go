package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ytharvest/internal/batch"
	"ytharvest/internal/harvest"
)

var reportColumns = []column{
	{header: "#", align: alignRight},
	{header: "Video"},
	{header: "Outcome"},
	{header: "Detail", maxWidth: 60},
	{header: "Elapsed", align: alignRight},
}

// renderReport formats the end-of-run summary written to stdout.
func renderReport(report batch.Report) string {
	var b strings.Builder

	if len(report.Entries) > 0 {
		rows := make([][]string, 0, len(report.Entries))
		for _, entry := range report.Entries {
			rows = append(rows, []string{
				strconv.Itoa(entry.Index),
				entryLabel(entry),
				outcomeLabel(entry.Outcome),
				entryDetail(entry),
				formatElapsed(entry.Elapsed),
			})
		}
		b.WriteString(renderTable(reportColumns, rows))
		b.WriteString("\n")
	}

	counts := report.Counts()
	fmt.Fprintf(&b, "Downloaded: %d  Already downloaded: %d  Rejected: %d  Filtered: %d  Failed: %d  (total %d, %s)\n",
		counts.Downloaded, counts.Already, counts.Rejected, counts.Filtered, counts.Failed,
		counts.Total, formatElapsed(report.Duration()))

	if failures := report.Failures(); len(failures) > 0 {
		b.WriteString("Failed URLs:\n")
		for _, entry := range failures {
			fmt.Fprintf(&b, "  %s\n", entry.URL)
		}
	}
	if report.Interrupted {
		fmt.Fprintf(&b, "Interrupted with %d URL(s) not attempted; rerun to resume.\n", report.Pending)
	}
	if report.SessionID != "" {
		fmt.Fprintf(&b, "Session: %s\n", report.SessionID)
	}
	return b.String()
}

func entryLabel(entry batch.Entry) string {
	if entry.VideoID != "" {
		return entry.VideoID
	}
	return entry.URL
}

func outcomeLabel(outcome harvest.Outcome) string {
	switch outcome {
	case harvest.OutcomeAlreadyDone:
		return "skip (already downloaded)"
	case "":
		return "unknown"
	default:
		return string(outcome)
	}
}

func entryDetail(entry batch.Entry) string {
	switch entry.Outcome {
	case harvest.OutcomeDownloaded:
		if len(entry.Languages) == 0 {
			return "audio only"
		}
		return "transcripts: " + strings.Join(entry.Languages, ", ")
	case harvest.OutcomeAlreadyDone:
		return ""
	default:
		return entry.Reason
	}
}

func formatElapsed(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(100 * time.Millisecond).String()
}
