package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxFileNameBytes bounds sanitized names well below the common 255-byte
// filesystem limit, leaving room for suffixes like _<id>_metadata.json.
const MaxFileNameBytes = 150

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName makes a video title usable as a file name component.
// Path separators become underscores, other unsafe characters are replaced
// or removed, and tabs or line breaks become spaces before other control
// characters are dropped. Runs of whitespace collapse to one space and
// leading dots are stripped. The result is truncated to MaxFileNameBytes on
// a rune boundary.
func SanitizeFileName(name string) string {
	name = fileNameReplacer.Replace(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), " ")
	name = strings.TrimLeft(name, ".")
	return strings.TrimSpace(truncateBytes(name, MaxFileNameBytes))
}

func truncateBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
