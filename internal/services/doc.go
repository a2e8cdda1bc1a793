// Package services defines shared utilities consumed by the harvest pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp video identifiers, source URLs, and run
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that let the batch driver
//     tell fatal configuration problems apart from per-video failures.
//
// Integrations with external tools live in subpackages (see ytdlp) so the
// orchestrator can swap them for stubs in tests.
package services
