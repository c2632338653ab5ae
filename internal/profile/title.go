package profile

import "strings"

const (
	dashSep = " - "
	pipeSep = " | "
)

var brandingSuffixes = []string{" | LinkedIn", " - LinkedIn"}

// ParseTitle extracts a display name and headline from a search result title
// such as "Jane Doe - Relationship Manager at BNP | LinkedIn". Either value is
// empty when it cannot be derived. The " - " separator takes precedence over
// " | " for the name; a headline is only produced when " - " is present.
func ParseTitle(title string) (name, headline string) {
	if before, after, ok := strings.Cut(title, dashSep); ok {
		return strings.TrimSpace(before), stripBranding(after)
	}
	if before, _, ok := strings.Cut(title, pipeSep); ok {
		return strings.TrimSpace(before), ""
	}
	return "", ""
}

func stripBranding(s string) string {
	s = strings.TrimSpace(s)
	for trimmed := true; trimmed; {
		trimmed = false
		for _, suffix := range brandingSuffixes {
			if strings.HasSuffix(s, suffix) {
				s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
				trimmed = true
			}
		}
	}
	return s
}
