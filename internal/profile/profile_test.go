package profile

import (
	"fmt"
	"testing"

	"github.com/FranksOps/scout/internal/serp"
)

func TestRegistry_FirstSeenWins(t *testing.T) {
	r := NewRegistry()

	out, p := r.Ingest(serp.RawHit{Link: "https://linkedin.com/in/jdoe/", Title: "Jane Doe - Banker | LinkedIn"}, "q1")
	if out != Added {
		t.Fatalf("Expected Added, got %v", out)
	}
	if p.Rank != 1 || p.Name != "Jane Doe" || p.Headline != "Banker" || p.SourceQuery != "q1" {
		t.Fatalf("unexpected profile: %+v", p)
	}

	out, p = r.Ingest(serp.RawHit{Link: "http://LINKEDIN.com/in/jdoe?x=1", Title: "J. Doe - CEO"}, "q2")
	if out != Duplicate {
		t.Fatalf("Expected Duplicate, got %v", out)
	}
	if p.Name != "Jane Doe" || p.Headline != "Banker" || p.SourceQuery != "q1" {
		t.Errorf("duplicate overwrote the first profile: %+v", p)
	}
	if r.Size() != 1 {
		t.Errorf("Expected size 1, got %d", r.Size())
	}
}

func TestRegistry_RejectsNonProfiles(t *testing.T) {
	r := NewRegistry()

	out, p := r.Ingest(serp.RawHit{Link: "https://www.linkedin.com/jobs/view/123", Title: "Job"}, "q")
	if out != Rejected || p != (Profile{}) {
		t.Fatalf("Expected Rejected with no profile, got %v %+v", out, p)
	}
	if r.Size() != 0 {
		t.Errorf("Expected empty registry, got %d", r.Size())
	}
}

func TestRegistry_UniqueAndContiguousRanks(t *testing.T) {
	r := NewRegistry()

	links := []string{
		"https://linkedin.com/in/a", "https://linkedin.com/in/b", "https://linkedin.com/in/a/",
		"https://example.com/x", "linkedin.com/in/c", "HTTPS://LINKEDIN.COM/IN/B", "https://linkedin.com/in/d",
	}
	for i, l := range links {
		r.Ingest(serp.RawHit{Link: l, Title: fmt.Sprintf("P%d - T", i)}, "q")
	}

	profiles := r.Profiles()
	if len(profiles) != 4 {
		t.Fatalf("Expected 4 profiles, got %d", len(profiles))
	}

	seen := make(map[string]bool)
	for i, p := range profiles {
		if seen[p.URL] {
			t.Errorf("duplicate url in registry: %s", p.URL)
		}
		seen[p.URL] = true
		if p.Rank != i+1 {
			t.Errorf("Expected rank %d, got %d", i+1, p.Rank)
		}
	}

	if !seen["https://linkedin.com/in/c"] {
		t.Errorf("Expected registry to contain canonical url for c")
	}
}

func TestRegistry_ProfilesIsCopy(t *testing.T) {
	r := NewRegistry()
	r.Ingest(serp.RawHit{Link: "https://linkedin.com/in/a", Title: "A - B"}, "q")

	ps := r.Profiles()
	ps[0].Name = "mutated"

	if r.Profiles()[0].Name != "A" {
		t.Errorf("Profiles must return a copy")
	}
}

func TestRegistry_IngestReturnsCopy(t *testing.T) {
	r := NewRegistry()

	_, p := r.Ingest(serp.RawHit{Link: "https://linkedin.com/in/a", Title: "A - B"}, "q1")
	p.Name = "mutated"
	p.SourceQuery = "other"

	_, dup := r.Ingest(serp.RawHit{Link: "https://linkedin.com/in/a/", Title: "Z - Y"}, "q2")
	dup.Headline = "mutated"

	got := r.Profiles()[0]
	if got.Name != "A" || got.Headline != "B" || got.SourceQuery != "q1" {
		t.Errorf("registered profile changed through a returned value: %+v", got)
	}
}

func TestRegistry_WhitespaceBeforeSlashIsDuplicate(t *testing.T) {
	r := NewRegistry()

	r.Ingest(serp.RawHit{Link: "https://www.linkedin.com/in/jdoe", Title: "Jane Doe - Banker"}, "q1")
	out, p := r.Ingest(serp.RawHit{Link: "https://www.linkedin.com/in/jdoe /", Title: "Jane Doe - Banker"}, "q2")

	if out != Duplicate {
		t.Fatalf("Expected Duplicate, got %v", out)
	}
	if p.Rank != 1 || r.Size() != 1 {
		t.Errorf("Expected a single profile with rank 1, got rank %d size %d", p.Rank, r.Size())
	}
}
