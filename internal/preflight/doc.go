// Package preflight provides readiness checks for the filesystem paths and
// external programs a harvest run depends on.
//
// These checks run in two contexts:
//   - "ytharvest run" calls RunAll before loading the input sheet. Any failed
//     check aborts the run before the first network request.
//   - "ytharvest status" displays the same results alongside dependency
//     availability and the installed yt-dlp version.
//
// Checks for optional inputs (cookie file, input sheet) are skipped when the
// corresponding path is not configured.
package preflight
