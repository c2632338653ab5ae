package export

import (
	"context"
	"strconv"
	"time"

	"github.com/FranksOps/scout/internal/profile"
)

// Record is the flat, externally visible form of a profile. Name and
// Headline are null when the result title did not carry them.
type Record struct {
	Rank        int     `json:"rank"`
	URL         string  `json:"url"`
	Name        *string `json:"name"`
	Headline    *string `json:"headline"`
	SourceQuery string  `json:"source_query"`
}

// Batch is the complete output of one session.
type Batch struct {
	SessionID  string
	ExportedAt time.Time
	Profiles   []profile.Profile
}

// Backend writes a session's profiles to a single flat destination.
type Backend interface {
	Write(ctx context.Context, batch Batch) error
	Close() error
}

// Records converts profiles to records, preserving rank order. The result is
// never nil.
func Records(profiles []profile.Profile) []Record {
	out := make([]Record, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, Record{
			Rank:        p.Rank,
			URL:         p.URL,
			Name:        nullable(p.Name),
			Headline:    nullable(p.Headline),
			SourceQuery: p.SourceQuery,
		})
	}
	return out
}

// Columns is the column order shared by the tabular backends.
var Columns = []string{"rank", "url", "name", "headline", "source_query"}

// Row renders r as strings in Columns order; null fields become "".
func (r Record) Row() []string {
	return []string{
		strconv.Itoa(r.Rank),
		r.URL,
		deref(r.Name),
		deref(r.Headline),
		r.SourceQuery,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
