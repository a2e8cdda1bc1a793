package harvest

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"ytharvest/internal/gate"
	"ytharvest/internal/services/ytdlp"
)

// Record is the JSON document written next to each audio file.
type Record struct {
	ID                    string            `json:"id"`
	Title                 string            `json:"title"`
	Uploader              string            `json:"uploader"`
	ChannelID             string            `json:"channel_id"`
	UploadDate            string            `json:"upload_date"`
	Duration              float64           `json:"duration"`
	DurationMinutes       float64           `json:"duration_minutes"`
	ViewCount             *int64            `json:"view_count"`
	LikeCount             *int64            `json:"like_count"`
	License               string            `json:"license"`
	LicenseCategory       string            `json:"license_category"`
	LicenseMatched        bool              `json:"license_matched"`
	Description           string            `json:"description"`
	SourceURL             string            `json:"source_url"`
	MP3File               string            `json:"mp3_file"`
	GatePolicy            string            `json:"gate_policy"`
	SubtitlesInCommonLang bool              `json:"subtitles_in_common_lang"`
	AudioOnly             bool              `json:"audio_only"`
	Transcriptions        map[string]string `json:"transcriptions"`
	HarvestedAt           time.Time         `json:"harvested_at"`
}

type recordInput struct {
	info            ytdlp.VideoInfo
	sourceURL       string
	audioFile       string
	gatePolicy      string
	decision        gate.Decision
	licenseCategory string
	transcripts     map[string]string
	harvestedAt     time.Time
}

func buildRecord(in recordInput) Record {
	uploader := in.info.Uploader
	if uploader == "" {
		uploader = in.info.Channel
	}
	transcripts := in.transcripts
	if transcripts == nil {
		transcripts = map[string]string{}
	}
	record := Record{
		ID:                    in.info.ID,
		Title:                 in.info.Title,
		Uploader:              uploader,
		ChannelID:             in.info.ChannelID,
		UploadDate:            in.info.UploadDate,
		Duration:              in.info.Duration,
		DurationMinutes:       in.info.DurationMinutes(),
		ViewCount:             in.info.ViewCount,
		LikeCount:             in.info.LikeCount,
		License:               strings.TrimSpace(in.info.License),
		LicenseMatched:        in.decision.LicenseMatched,
		Description:           strings.TrimSpace(in.info.Description),
		SourceURL:             in.sourceURL,
		MP3File:               in.audioFile,
		GatePolicy:            in.gatePolicy,
		SubtitlesInCommonLang: !in.decision.AudioOnly,
		AudioOnly:             in.decision.AudioOnly,
		Transcriptions:        transcripts,
		HarvestedAt:           in.harvestedAt.UTC(),
	}
	if in.decision.LicenseMatched {
		record.LicenseCategory = in.licenseCategory
	}
	return record
}

// Encode renders the record as indented JSON without HTML escaping, so
// transcripts keep characters like & and < readable.
func (r Record) Encode() ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
