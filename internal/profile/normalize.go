package profile

import (
	"net/url"
	"strings"
	"unicode"
)

const (
	// profileMarker identifies a public profile link anywhere in a raw URL.
	profileMarker = "linkedin.com/in/"
	// profilePath must appear in the path of the rewritten URL.
	profilePath = "/in/"
)

// NormalizeURL canonicalizes a raw result link into a profile key. It returns
// false when the link is not a profile URL. The result is lower-cased, always
// https, and carries no query string and no trailing slash or whitespace, so
// normalizing an already-normalized URL returns it unchanged.
func NormalizeURL(raw string) (string, bool) {
	u := strings.TrimSpace(raw)
	if !strings.Contains(strings.ToLower(u), profileMarker) {
		return "", false
	}

	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimRightFunc(u, isTrailingJunk)

	lower := strings.ToLower(u)
	switch {
	case strings.HasPrefix(lower, "https://"):
		u = "https://" + u[len("https://"):]
	case strings.HasPrefix(lower, "http://"):
		u = "https://" + u[len("http://"):]
	default:
		u = "https://" + u
	}
	u = strings.ToLower(u)

	// The marker may only have been present in the stripped query string.
	if !strings.Contains(u, profileMarker) {
		return "", false
	}
	parsed, err := url.Parse(u)
	if err != nil || !strings.Contains(parsed.Path, profilePath) {
		return "", false
	}

	return u, true
}

func isTrailingJunk(r rune) bool {
	return r == '/' || unicode.IsSpace(r)
}
