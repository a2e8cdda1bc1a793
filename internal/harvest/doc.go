// Package harvest processes one video URL end to end.
//
// The Orchestrator checks the on-disk completion marker, probes metadata,
// consults the gate, downloads audio and subtitles through yt-dlp, reduces
// the subtitles to plain-text transcripts, and writes one JSON record beside
// the audio file. A video counts as done only when both the audio file and
// its record exist; the record is written atomically and last, so a failed
// run never leaves a false completion marker behind.
package harvest
