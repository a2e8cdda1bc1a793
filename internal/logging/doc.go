// Package logging assembles structured slog loggers and formatting helpers used
// across ytharvest.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// stamps every record with the run's session ID, and exposes context-aware
// helpers so harvest code can tag log lines with video IDs and source URLs.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
package logging
