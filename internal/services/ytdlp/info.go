package ytdlp

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
)

// SubtitleTrack is one entry of a subtitle catalog.
type SubtitleTrack struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// RequestedSubtitle describes a subtitle yt-dlp selected for the current run.
// Filepath is set only when the file was written to disk.
type RequestedSubtitle struct {
	Ext      string `json:"ext"`
	URL      string `json:"url"`
	Name     string `json:"name,omitempty"`
	Filepath string `json:"filepath,omitempty"`
}

// RequestedDownload describes a finished download after post-processing.
type RequestedDownload struct {
	Filepath string `json:"filepath"`
	Ext      string `json:"ext"`
}

// VideoInfo mirrors the subset of the yt-dlp info JSON that ytharvest reads.
type VideoInfo struct {
	ID                 string                       `json:"id"`
	Title              string                       `json:"title"`
	Uploader           string                       `json:"uploader"`
	Channel            string                       `json:"channel"`
	ChannelID          string                       `json:"channel_id"`
	UploadDate         string                       `json:"upload_date"`
	Duration           float64                      `json:"duration"`
	ViewCount          *int64                       `json:"view_count"`
	LikeCount          *int64                       `json:"like_count"`
	License            string                       `json:"license"`
	Description        string                       `json:"description"`
	WebpageURL         string                       `json:"webpage_url"`
	Subtitles          map[string][]SubtitleTrack   `json:"subtitles"`
	AutomaticCaptions  map[string][]SubtitleTrack   `json:"automatic_captions"`
	RequestedSubtitles map[string]RequestedSubtitle `json:"requested_subtitles"`
	RequestedDownloads []RequestedDownload          `json:"requested_downloads"`
}

// ManualLanguages returns the sorted language codes of the uploader-provided
// subtitle catalog.
func (v VideoInfo) ManualLanguages() []string {
	return sortedKeys(v.Subtitles)
}

// AutomaticLanguages returns the sorted language codes of the automatic caption catalog.
func (v VideoInfo) AutomaticLanguages() []string {
	return sortedKeys(v.AutomaticCaptions)
}

// HasSubtitle reports whether lang is in the manual catalog, or in the
// automatic catalog when includeAutomatic is set.
func (v VideoInfo) HasSubtitle(lang string, includeAutomatic bool) bool {
	if _, ok := v.Subtitles[lang]; ok {
		return true
	}
	if includeAutomatic {
		_, ok := v.AutomaticCaptions[lang]
		return ok
	}
	return false
}

// DurationMinutes returns the duration in minutes rounded to two decimals.
func (v VideoInfo) DurationMinutes() float64 {
	if v.Duration <= 0 {
		return 0
	}
	return math.Round(v.Duration/60*100) / 100
}

// AudioPath returns the post-processed media path reported by yt-dlp, if any.
func (v VideoInfo) AudioPath() string {
	for i := len(v.RequestedDownloads) - 1; i >= 0; i-- {
		if path := strings.TrimSpace(v.RequestedDownloads[i].Filepath); path != "" {
			return path
		}
	}
	return ""
}

// ParseInfo decodes the info JSON printed by --dump-single-json. yt-dlp may
// print other lines before it, so the last line that looks like a JSON object wins.
func ParseInfo(lines []string) (VideoInfo, error) {
	var payload string
	for i := len(lines) - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, "{") {
			payload = trimmed
			break
		}
	}
	if payload == "" {
		return VideoInfo{}, errNoInfoJSON
	}
	var info VideoInfo
	if err := json.Unmarshal([]byte(payload), &info); err != nil {
		return VideoInfo{}, err
	}
	if strings.TrimSpace(info.ID) == "" {
		return VideoInfo{}, errMissingID
	}
	return info, nil
}

func sortedKeys[T any](m map[string]T) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
