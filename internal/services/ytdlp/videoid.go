package ytdlp

import (
	"net/url"
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractVideoID parses the YouTube video ID out of a URL without any network
// access. Supported shapes: watch?v=<id>, youtu.be/<id>, /shorts/<id>,
// /embed/<id>, /live/<id>, and /v/<id>.
func ExtractVideoID(rawURL string) (string, bool) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", false
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	host := strings.ToLower(parsed.Hostname())
	for _, prefix := range []string{"www.", "m.", "music."} {
		host = strings.TrimPrefix(host, prefix)
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")

	var candidate string
	switch host {
	case "youtu.be":
		candidate = segments[0]
	case "youtube.com", "youtube-nocookie.com":
		switch {
		case len(segments) == 1 && segments[0] == "watch":
			candidate = parsed.Query().Get("v")
		case len(segments) >= 2:
			switch segments[0] {
			case "shorts", "embed", "live", "v":
				candidate = segments[1]
			}
		}
	default:
		return "", false
	}

	if !videoIDPattern.MatchString(candidate) {
		return "", false
	}
	return candidate, true
}
