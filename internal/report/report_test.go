package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/FranksOps/scout/internal/pipeline"
	"github.com/FranksOps/scout/internal/plan"
	"github.com/FranksOps/scout/internal/profile"
)

func sampleResult() *pipeline.Result {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &pipeline.Result{
		Profiles: []profile.Profile{{Rank: 1, URL: "u1"}, {Rank: 2, URL: "u2"}, {Rank: 3, URL: "u3"}},
		Plan:     &plan.Plan{NegativeSignals: []string{"junior", "stagiaire"}},
		Stats: pipeline.Stats{
			SessionID:            "abc",
			CombinationsPlanned:  3,
			CombinationsExecuted: 2,
			PagesRequested:       4,
			PageFailures:         1,
			RawHits:              8,
			New:                  3,
			Duplicates:           4,
			Rejected:             1,
			StoppedEarly:         true,
			StartedAt:            now,
			FinishedAt:           now.Add(90 * time.Second),
			Combinations: []pipeline.CombinationStats{
				{Priority: 1, Query: "site:linkedin.com/in a", Results: 5, New: 3, Duplicates: 1, Rejected: 1},
				{Priority: 2, Query: "site:linkedin.com/in b", Results: 3, Duplicates: 3, Error: "serp: page 2 failed"},
			},
		},
	}
}

func TestGenerateSummary(t *testing.T) {
	s := GenerateSummary(sampleResult())

	if s.Profiles != 3 {
		t.Errorf("expected 3 profiles, got %d", s.Profiles)
	}
	if s.Duration != 90*time.Second {
		t.Errorf("expected 90s duration, got %v", s.Duration)
	}
	if s.DuplicateRate != 0.5 {
		t.Errorf("expected duplicate rate 0.5, got %v", s.DuplicateRate)
	}
	if len(s.NegativeSignals) != 2 {
		t.Errorf("expected negative signals carried over, got %v", s.NegativeSignals)
	}

	empty := GenerateSummary(nil)
	if empty.Profiles != 0 || empty.DuplicateRate != 0 {
		t.Errorf("expected zero summary for nil result, got %+v", empty)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, GenerateSummary(sampleResult())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Session:       abc",
		"Combinations:  2/3 executed (target reached)",
		"Pages:         4 requested, 1 failed",
		"Duplicates:    4 (50.0%)",
		"1. [P1] site:linkedin.com/in a",
		"failed: serp: page 2 failed",
		"  stagiaire",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, GenerateSummary(sampleResult())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["SessionID"] != "abc" || decoded["StoppedEarly"] != true {
		t.Errorf("unexpected JSON: %v", decoded)
	}
}

func TestWritePlan(t *testing.T) {
	p := &plan.Plan{
		Combinations: []plan.Combination{
			{JobTitle: "Banker", Company: "BNP", Location: "Paris", Priority: 1, XRayQuery: `site:linkedin.com/in "Banker" "BNP"`},
		},
		NegativeSignals: []string{"junior"},
	}

	var buf bytes.Buffer
	if err := WritePlan(&buf, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Query Plan (1 combinations)") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "1. [P1] Banker + BNP + Paris") || !strings.Contains(out, `site:linkedin.com/in "Banker" "BNP"`) {
		t.Errorf("missing combination:\n%s", out)
	}
	if !strings.Contains(out, "  junior") {
		t.Errorf("missing negative signal:\n%s", out)
	}
}
