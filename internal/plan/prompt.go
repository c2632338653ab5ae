package plan

import (
	"strings"
	"text/template"
)

var promptTmpl = template.Must(template.New("prompt").Parse(`You are an expert technical recruiter specialised in LinkedIn sourcing and Google X-Ray search.

Read the search description below carefully and produce EXACTLY {{.Count}} optimised search combinations.

## SEARCH DESCRIPTION

{{.Description}}

## EACH COMBINATION

- job_title: a relevant job title (local-language and English variants, synonyms)
- company: a company the person works or worked at
- location: a coherent geographic area (city, region, district)
- priority: an integer from 1 to 5, 1 being the most strategic
- xray_query: a ready-to-use Google X-Ray query

## RULES

Priorities:
- 1: very common titles, large companies, broad locations, simple robust queries.
- 2: common title variants, intermediate locations.
- 3 to 5: rarer titles, specific seniority, precise locations (exact city or postcode), a few creative queries.
Every combination must be plausible and likely to return results.

Vary titles and companies across combinations; do not repeat the same pair every time.

xray_query:
- always starts with site:linkedin.com/in
- uses double quotes around exact terms, e.g. "Relationship Manager"
- combines equivalent titles with OR, e.g. ("Account Manager" OR "Relationship Manager")
- stays short and robust
- never uses exclusions (-term); seniority is handled when scoring, not in the query

negative_signals: a list of terms that indicate a junior profile (e.g. "intern", "apprentice", "assistant", "junior").
These terms must NOT be excluded from the queries.

## RESPONSE FORMAT

Reply ONLY with valid JSON, no markdown, in this exact shape:

{
  "combinations": [
    {
      "job_title": "...",
      "company": "...",
      "location": "...",
      "priority": 1,
      "xray_query": "site:linkedin.com/in ..."
    }
  ],
  "negative_signals": ["intern", "apprentice", "assistant", "junior"]
}

Generate EXACTLY {{.Count}} combinations, sorted by priority (1 to 5).
`))

// BuildPrompt renders the generation prompt for description and count.
func BuildPrompt(description string, count int) (string, error) {
	var b strings.Builder
	err := promptTmpl.Execute(&b, struct {
		Description string
		Count       int
	}{
		Description: strings.TrimSpace(description),
		Count:       count,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
