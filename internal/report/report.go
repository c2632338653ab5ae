package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/FranksOps/scout/internal/pipeline"
	"github.com/FranksOps/scout/internal/plan"
)

// Summary contains aggregated figures about a search session.
type Summary struct {
	SessionID            string
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
	CombinationsPlanned  int
	CombinationsExecuted int
	PagesRequested       int
	PageFailures         int
	RawHits              int
	Profiles             int
	Duplicates           int
	Rejected             int
	DuplicateRate        float64 // duplicates / raw hits, 0 when there were no hits
	StoppedEarly         bool
	Combinations         []pipeline.CombinationStats
	NegativeSignals      []string
}

// GenerateSummary derives a Summary from a finished session.
func GenerateSummary(res *pipeline.Result) Summary {
	if res == nil {
		return Summary{}
	}
	st := res.Stats

	s := Summary{
		SessionID:            st.SessionID,
		StartTime:            st.StartedAt,
		EndTime:              st.FinishedAt,
		Duration:             st.Elapsed(),
		CombinationsPlanned:  st.CombinationsPlanned,
		CombinationsExecuted: st.CombinationsExecuted,
		PagesRequested:       st.PagesRequested,
		PageFailures:         st.PageFailures,
		RawHits:              st.RawHits,
		Profiles:             len(res.Profiles),
		Duplicates:           st.Duplicates,
		Rejected:             st.Rejected,
		StoppedEarly:         st.StoppedEarly,
		Combinations:         st.Combinations,
	}
	if st.RawHits > 0 {
		s.DuplicateRate = float64(st.Duplicates) / float64(st.RawHits)
	}
	if res.Plan != nil {
		s.NegativeSignals = res.Plan.NegativeSignals
	}
	return s
}

// WriteJSON writes the summary to the provided writer in JSON format.
func WriteJSON(w io.Writer, summary Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

var funcs = template.FuncMap{
	"percent": func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) },
	"inc":     func(i int) int { return i + 1 },
}

const textTmpl = `Scout Session Summary
---------------------
Session:       {{.SessionID}}
Time:          {{.StartTime.Format "2006-01-02 15:04:05"}} - {{.EndTime.Format "2006-01-02 15:04:05"}}
Duration:      {{.Duration}}
Combinations:  {{.CombinationsExecuted}}/{{.CombinationsPlanned}} executed{{if .StoppedEarly}} (target reached){{end}}
Pages:         {{.PagesRequested}} requested, {{.PageFailures}} failed
Raw Hits:      {{.RawHits}}
Profiles:      {{.Profiles}} unique
Duplicates:    {{.Duplicates}} ({{percent .DuplicateRate}})
Rejected:      {{.Rejected}}

Combinations:
{{- range $i, $c := .Combinations}}
  {{inc $i}}. [P{{$c.Priority}}] {{$c.Query}}
     {{$c.Results}} results, {{$c.New}} new, {{$c.Duplicates}} duplicates{{if $c.Error}}, failed: {{$c.Error}}{{end}}
{{- else}}
  None
{{- end}}

Negative Signals:
{{- range .NegativeSignals}}
  {{.}}
{{- else}}
  None
{{- end}}
`

// WriteText writes a human-readable text summary to the provided writer.
func WriteText(w io.Writer, summary Summary) error {
	t, err := template.New("textReport").Funcs(funcs).Parse(textTmpl)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	if err := t.Execute(w, summary); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	return nil
}

const planTmpl = `Query Plan ({{len .Combinations}} combinations)
{{- range $i, $c := .Combinations}}
  {{inc $i}}. [P{{$c.Priority}}] {{$c.JobTitle}} + {{$c.Company}} + {{$c.Location}}
     {{$c.XRayQuery}}
{{- else}}
  None
{{- end}}

Negative Signals:
{{- range .NegativeSignals}}
  {{.}}
{{- else}}
  None
{{- end}}
`

// WritePlan writes the ordered combinations of a plan.
func WritePlan(w io.Writer, p *plan.Plan) error {
	if p == nil {
		p = &plan.Plan{}
	}

	t, err := template.New("planReport").Funcs(funcs).Parse(planTmpl)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	if err := t.Execute(w, p); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	return nil
}
