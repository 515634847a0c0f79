package media

import (
	"net/url"
	"strings"
)

const youtubeIDLength = 11

// YouTubeVideoID extracts the 11-character video id from the URL shapes
// YouTube hands out (watch, youtu.be, embed, shorts, music subdomain). A bare
// 11-character id is accepted verbatim. Anything unrecognized yields "" and
// the caller renders the no-video state instead of a broken player.
func YouTubeVideoID(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	if isBareVideoID(input) {
		return input
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return ""
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")
	host = strings.TrimPrefix(host, "music.")

	switch host {
	case "youtu.be":
		return validateVideoID(strings.Trim(parsed.Path, "/"))
	case "youtube.com", "youtube-nocookie.com":
		if id := parsed.Query().Get("v"); id != "" {
			return validateVideoID(id)
		}
		for _, prefix := range []string{"/embed/", "/shorts/", "/live/", "/v/"} {
			if strings.HasPrefix(parsed.Path, prefix) {
				rest := strings.TrimPrefix(parsed.Path, prefix)
				if idx := strings.IndexByte(rest, '/'); idx >= 0 {
					rest = rest[:idx]
				}
				return validateVideoID(rest)
			}
		}
	}

	return ""
}

func validateVideoID(id string) string {
	if isBareVideoID(id) {
		return id
	}
	return ""
}

func isBareVideoID(s string) bool {
	if len(s) != youtubeIDLength {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
