package serp

import (
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

var errInvalidJSON = errors.New("response is not valid JSON")

// parseOrganic extracts hits from the array at path. A missing array is an
// exhausted page, not an error. Entries without a link are kept so the
// registry can count them as rejected.
func parseOrganic(body []byte, path string) ([]RawHit, error) {
	if !gjson.ValidBytes(body) {
		return nil, errInvalidJSON
	}

	results := gjson.GetBytes(body, path)
	if !results.Exists() || !results.IsArray() {
		return nil, nil
	}

	var hits []RawHit
	results.ForEach(func(_, item gjson.Result) bool {
		hits = append(hits, RawHit{
			Link:  item.Get("link").String(),
			Title: CleanTitle(item.Get("title").String()),
		})
		return true
	})
	return hits, nil
}

var (
	// markupTag matches the inline tags search engines put in titles.
	markupTag  = regexp.MustCompile(`(?i)</?(?:a|b|br|em|i|mark|small|span|strong|sub|sup|u)(?:\s[^<>]*)?/?>`)
	htmlEntity = regexp.MustCompile(`&(?:[a-zA-Z][a-zA-Z0-9]*|#[0-9]+|#[xX][0-9a-fA-F]+);`)
)

// CleanTitle reduces a result title that carries inline markup or HTML
// entities to plain text with collapsed whitespace. Other titles, including
// ones with literal angle brackets such as "<Paris>", are only trimmed.
func CleanTitle(title string) string {
	trimmed := strings.TrimSpace(title)
	if !markupTag.MatchString(trimmed) && !htmlEntity.MatchString(trimmed) {
		return trimmed
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(escapeStrayBrackets(trimmed)))
	if err != nil {
		return trimmed
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// escapeStrayBrackets rewrites every '<' that does not open a markupTag as
// "&lt;" so the parser keeps it as text.
func escapeStrayBrackets(s string) string {
	tags := markupTag.FindAllStringIndex(s, -1)

	var b strings.Builder
	b.Grow(len(s))
	next := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '<' {
			for next < len(tags) && tags[next][0] < i {
				next++
			}
			if next == len(tags) || tags[next][0] != i {
				b.WriteString("&lt;")
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
