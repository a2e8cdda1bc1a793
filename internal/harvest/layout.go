package harvest

import (
	"os"
	"path/filepath"
	"strings"

	"ytharvest/internal/config"
	"ytharvest/internal/fileutil"
	"ytharvest/internal/textutil"
)

const (
	metadataSuffixTitle = "_metadata.json"
	metadataExtID       = ".json"
	untitled            = "untitled"
)

// Layout computes where a video's outputs live.
type Layout struct {
	Dir      string
	Naming   string
	AudioExt string
}

// NewLayout returns a layout rooted at dir. Unknown naming schemes fall back
// to config.NamingID.
func NewLayout(dir, naming, audioExt string) Layout {
	if naming != config.NamingTitleID {
		naming = config.NamingID
	}
	audioExt = strings.TrimPrefix(strings.TrimSpace(audioExt), ".")
	if audioExt == "" {
		audioExt = "mp3"
	}
	return Layout{Dir: dir, Naming: naming, AudioExt: audioExt}
}

// Base returns the output path without extension. Subtitle files live at
// <base>.<lang>.<ext>.
func (l Layout) Base(id, title string) string {
	if l.Naming == config.NamingTitleID {
		name := textutil.SanitizeFileName(title)
		if name == "" {
			name = untitled
		}
		return filepath.Join(l.Dir, name+"_"+id)
	}
	return filepath.Join(l.Dir, id)
}

// AudioPath returns the audio file path.
func (l Layout) AudioPath(id, title string) string {
	return l.Base(id, title) + "." + l.AudioExt
}

// MetadataPath returns the JSON record path.
func (l Layout) MetadataPath(id, title string) string {
	if l.Naming == config.NamingTitleID {
		return l.Base(id, title) + metadataSuffixTitle
	}
	return l.Base(id, title) + metadataExtID
}

// Complete reports whether both outputs for id already exist. It needs only
// the ID: title-based names are found by scanning for the ID suffix.
func (l Layout) Complete(id string) (audio, metadata string, ok bool) {
	if strings.TrimSpace(id) == "" {
		return "", "", false
	}
	if l.Naming != config.NamingTitleID {
		audio, metadata = l.AudioPath(id, ""), l.MetadataPath(id, "")
		if fileutil.IsRegularFile(audio) && fileutil.IsRegularFile(metadata) {
			return audio, metadata, true
		}
		return "", "", false
	}

	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return "", "", false
	}
	suffix := "_" + id + metadataSuffixTitle
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, suffix) {
			continue
		}
		base := filepath.Join(l.Dir, strings.TrimSuffix(name, metadataSuffixTitle))
		audio = base + "." + l.AudioExt
		if fileutil.IsRegularFile(audio) {
			return audio, filepath.Join(l.Dir, name), true
		}
	}
	return "", "", false
}
