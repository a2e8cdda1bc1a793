// Package ytdlp wraps the yt-dlp command-line tool.
//
// Probe reads a video's info JSON without downloading, Download fetches the
// best audio stream (transcoded through ffmpeg) plus the requested subtitle
// tracks, and ExtractVideoID recognises watch, short-link, shorts, embed, and
// live URLs without touching the network. Commands run through an Executor so
// tests can replay canned output. HTTPFetcher retrieves subtitle payloads that
// yt-dlp listed but did not write to disk.
package ytdlp
