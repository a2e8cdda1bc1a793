package subtitles

import (
	"path/filepath"
	"strings"
)

// Format identifies a subtitle payload encoding.
type Format string

const (
	FormatVTT     Format = "vtt"
	FormatSRT     Format = "srt"
	FormatJSON3   Format = "json3"
	FormatUnknown Format = ""
)

// ParseFormat maps a file extension (with or without the leading dot) to a Format.
func ParseFormat(ext string) Format {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), ".")) {
	case "vtt", "webvtt":
		return FormatVTT
	case "srt":
		return FormatSRT
	case "json3":
		return FormatJSON3
	default:
		return FormatUnknown
	}
}

// FileFormat detects the format from a path's extension.
func FileFormat(path string) Format {
	return ParseFormat(filepath.Ext(path))
}

// Decode converts raw into plain text according to format. Unknown formats
// are returned trimmed.
func Decode(format Format, raw string) string {
	switch format {
	case FormatVTT:
		return VTTToText(raw)
	case FormatSRT:
		return SRTToText(raw)
	case FormatJSON3:
		return JSON3ToText(raw)
	default:
		return strings.TrimSpace(raw)
	}
}
