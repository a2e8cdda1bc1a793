package subtitles

import (
	"os"
	"strings"
)

// fallbackExtensions are probed, in order, after the requested extension.
var fallbackExtensions = []string{"vtt", "json3", "srt"}

// CandidateExtensions returns the ordered extensions to probe for a subtitle
// file: the requested extension first, then vtt, json3, and srt.
func CandidateExtensions(requested string) []string {
	out := make([]string, 0, len(fallbackExtensions)+1)
	seen := make(map[string]struct{}, len(fallbackExtensions)+1)
	for _, ext := range append([]string{requested}, fallbackExtensions...) {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" {
			continue
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}

// CandidatePaths lists <base>.<lang>.<ext> for every candidate extension.
func CandidatePaths(base, lang, requested string) []string {
	exts := CandidateExtensions(requested)
	paths := make([]string, 0, len(exts))
	for _, ext := range exts {
		paths = append(paths, base+"."+lang+"."+ext)
	}
	return paths
}

// LocateLocal returns the first existing regular file among CandidatePaths.
func LocateLocal(base, lang, requested string) (string, bool) {
	for _, path := range CandidatePaths(base, lang, requested) {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}
