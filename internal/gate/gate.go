// Package gate decides, per video, whether to download and which subtitle
// languages to request.
//
// Two policies exist. SubtitleLanguagePresence always downloads and requests
// the allow-listed languages the video actually offers. StrictLicense
// additionally requires the observed license string to equal the expected
// one exactly; anything else is rejected before any file is written.
package gate

import (
	"fmt"
	"sort"
	"strings"

	"ytharvest/internal/config"
	"ytharvest/internal/services"
	"ytharvest/internal/services/ytdlp"
)

// Policy names a gate implementation.
type Policy string

const (
	PolicyStrictLicense            Policy = config.GateStrictLicense
	PolicySubtitleLanguagePresence Policy = config.GateSubtitleLanguagePresence
)

// Decision is the outcome of evaluating one video.
type Decision struct {
	Proceed bool
	Reason  string
	// SubtitleLanguages are catalog keys to request, in allow-list order.
	SubtitleLanguages []string
	// AudioOnly is set when no allow-listed language is offered.
	AudioOnly      bool
	LicenseMatched bool
}

// Gate evaluates probed metadata.
type Gate interface {
	Name() string
	Evaluate(info ytdlp.VideoInfo) Decision
}

// New builds the gate selected by cfg.Policy.
func New(cfg config.Gate, languages []string, includeAutomatic bool) (Gate, error) {
	selector := languageSelector{languages: languages, includeAutomatic: includeAutomatic}
	switch Policy(strings.ToLower(strings.TrimSpace(cfg.Policy))) {
	case PolicySubtitleLanguagePresence, "":
		return SubtitleLanguagePresence{languageSelector: selector}, nil
	case PolicyStrictLicense:
		expected := strings.TrimSpace(cfg.ExpectedLicense)
		if expected == "" {
			return nil, services.Wrap(services.ErrConfiguration, "gate", "new", "strict_license requires an expected license", nil)
		}
		return StrictLicense{Expected: expected, languageSelector: selector}, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "gate", "new", fmt.Sprintf("unknown policy %q", cfg.Policy), nil)
	}
}

// SubtitleLanguagePresence admits every video.
type SubtitleLanguagePresence struct {
	languageSelector
}

// NewSubtitleLanguagePresence constructs the permissive gate.
func NewSubtitleLanguagePresence(languages []string, includeAutomatic bool) SubtitleLanguagePresence {
	return SubtitleLanguagePresence{languageSelector{languages: languages, includeAutomatic: includeAutomatic}}
}

func (SubtitleLanguagePresence) Name() string { return string(PolicySubtitleLanguagePresence) }

func (g SubtitleLanguagePresence) Evaluate(info ytdlp.VideoInfo) Decision {
	return g.decide(g.selectFrom(info), false)
}

// StrictLicense admits only videos whose trimmed license equals Expected.
type StrictLicense struct {
	Expected string
	languageSelector
}

// NewStrictLicense constructs the license-checking gate.
func NewStrictLicense(expected string, languages []string, includeAutomatic bool) StrictLicense {
	return StrictLicense{Expected: strings.TrimSpace(expected), languageSelector: languageSelector{languages: languages, includeAutomatic: includeAutomatic}}
}

func (StrictLicense) Name() string { return string(PolicyStrictLicense) }

func (g StrictLicense) Evaluate(info ytdlp.VideoInfo) Decision {
	observed := strings.TrimSpace(info.License)
	if observed != g.Expected {
		label := observed
		if label == "" {
			label = "none"
		}
		return Decision{Proceed: false, Reason: fmt.Sprintf("license %q does not match expected %q", label, g.Expected)}
	}
	return g.decide(g.selectFrom(info), true)
}

type languageSelector struct {
	languages        []string
	includeAutomatic bool
}

// selectFrom intersects the allow-list with the video's catalog.
func (s languageSelector) selectFrom(info ytdlp.VideoInfo) []string {
	keys := make([]string, 0, len(info.Subtitles)+len(info.AutomaticCaptions))
	for key := range info.Subtitles {
		keys = append(keys, key)
	}
	if s.includeAutomatic {
		for key := range info.AutomaticCaptions {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var selected []string
	seen := make(map[string]struct{}, len(keys))
	for _, want := range s.languages {
		for _, key := range keys {
			if !strings.EqualFold(want, key) {
				continue
			}
			if _, dup := seen[key]; dup {
				break
			}
			seen[key] = struct{}{}
			selected = append(selected, key)
			break
		}
	}
	return selected
}

func (s languageSelector) decide(selected []string, licenseMatched bool) Decision {
	decision := Decision{
		Proceed:           true,
		SubtitleLanguages: selected,
		AudioOnly:         len(selected) == 0,
		LicenseMatched:    licenseMatched,
	}
	if decision.AudioOnly {
		decision.Reason = "no allow-listed subtitles; audio only"
	} else {
		decision.Reason = "subtitles available: " + strings.Join(selected, ",")
	}
	return decision
}
