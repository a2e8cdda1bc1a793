package subtitles

import (
	"encoding/json"
	"strings"
	"unicode"
)

const byteOrderMark = "\ufeff"

// VTTToText reduces a WebVTT payload to its caption text joined by single spaces.
func VTTToText(raw string) string {
	var parts []string
	inHeader := false
	for _, line := range strings.Split(raw, "\n") {
		s := cleanLine(line)
		if s == "" {
			inHeader = false
			continue
		}
		if strings.HasPrefix(strings.ToUpper(s), "WEBVTT") {
			inHeader = true
			continue
		}
		if inHeader {
			if isHeaderField(s) {
				continue
			}
			inHeader = false
		}
		if isCueControl(s) {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// SRTToText reduces a SubRip payload to its caption text joined by single spaces.
func SRTToText(raw string) string {
	var parts []string
	for _, line := range strings.Split(raw, "\n") {
		s := cleanLine(line)
		if s == "" || isCueControl(s) {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

type json3Document struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// JSON3ToText joins the utf8 segment text of a YouTube JSON3 payload. Any
// decode failure yields "".
func JSON3ToText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	var doc json3Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return ""
	}
	var parts []string
	for _, event := range doc.Events {
		for _, seg := range event.Segs {
			if seg.UTF8 != "" {
				parts = append(parts, seg.UTF8)
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func cleanLine(line string) string {
	return strings.TrimSpace(strings.ReplaceAll(line, byteOrderMark, ""))
}

// isHeaderField reports metadata lines such as "Kind: captions" that may
// follow the WEBVTT signature.
func isHeaderField(s string) bool {
	key, _, ok := strings.Cut(s, ":")
	if !ok || key == "" {
		return false
	}
	for _, r := range key {
		if !unicode.IsLetter(r) && r != '-' {
			return false
		}
	}
	return true
}

// isCueControl reports timing lines and bare cue numbers.
func isCueControl(s string) bool {
	if strings.Contains(s, "-->") {
		return true
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
