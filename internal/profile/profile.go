package profile

import "github.com/FranksOps/scout/internal/serp"

// Profile is a unique public profile discovered during a session.
type Profile struct {
	// URL is the canonical profile URL and the registry key.
	URL string `json:"url"`
	// Name and Headline are empty when the result title did not carry them.
	Name        string `json:"name,omitempty"`
	Headline    string `json:"headline,omitempty"`
	SourceQuery string `json:"source_query"`
	// Rank is 1-based discovery order within a single session.
	Rank int `json:"rank"`
}

// Outcome reports what Ingest did with a hit.
type Outcome int

const (
	Added Outcome = iota
	Duplicate
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "new"
	case Duplicate:
		return "duplicate"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Registry holds the deduplicated, insertion-ordered set of profiles for one
// session. It is owned by a single goroutine and is not safe for concurrent use.
type Registry struct {
	profiles []Profile
	index    map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Ingest folds a raw search hit into the registry and returns a copy of the
// registered profile. Hits whose link is not a profile URL are dropped and
// yield a zero Profile. The first hit seen for a canonical URL wins; later
// hits never overwrite it.
func (r *Registry) Ingest(hit serp.RawHit, sourceQuery string) (Outcome, Profile) {
	canonical, ok := NormalizeURL(hit.Link)
	if !ok {
		return Rejected, Profile{}
	}

	if i, exists := r.index[canonical]; exists {
		return Duplicate, r.profiles[i]
	}

	name, headline := ParseTitle(hit.Title)
	p := Profile{
		URL:         canonical,
		Name:        name,
		Headline:    headline,
		SourceQuery: sourceQuery,
		Rank:        len(r.profiles) + 1,
	}
	r.profiles = append(r.profiles, p)
	r.index[canonical] = len(r.profiles) - 1

	return Added, p
}

// Size returns the number of unique profiles.
func (r *Registry) Size() int {
	return len(r.profiles)
}

// Profiles returns a copy of the profiles in rank order.
func (r *Registry) Profiles() []Profile {
	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}
