// Package subtitles turns subtitle payloads into plain-text transcripts.
//
// WebVTT and SubRip payloads are reduced to their caption text by dropping
// signatures, header blocks, cue numbers, timing lines, and blank lines.
// YouTube JSON3 payloads are reduced to their segment text. Every converter
// is total: malformed input yields an empty string, never a panic.
//
// The package also knows where yt-dlp leaves subtitle files on disk, so the
// harvester can resolve a language to a local file before falling back to a
// remote fetch.
package subtitles
