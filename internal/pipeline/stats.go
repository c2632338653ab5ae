package pipeline

import "time"

// CombinationStats summarises the execution of one combination.
type CombinationStats struct {
	Priority   int    `json:"priority"`
	Query      string `json:"query"`
	Pages      int    `json:"pages"`
	Results    int    `json:"results"`
	New        int    `json:"new"`
	Duplicates int    `json:"duplicates"`
	Rejected   int    `json:"rejected"`
	Error      string `json:"error,omitempty"`
}

// Stats describes a finished session.
type Stats struct {
	SessionID            string             `json:"session_id"`
	CombinationsPlanned  int                `json:"combinations_planned"`
	CombinationsExecuted int                `json:"combinations_executed"`
	PagesRequested       int                `json:"pages_requested"`
	PageFailures         int                `json:"page_failures"`
	RawHits              int                `json:"raw_hits"`
	New                  int                `json:"new"`
	Duplicates           int                `json:"duplicates"`
	Rejected             int                `json:"rejected"`
	Profiles             int                `json:"profiles"`
	StoppedEarly         bool               `json:"stopped_early"`
	StartedAt            time.Time          `json:"started_at"`
	FinishedAt           time.Time          `json:"finished_at"`
	Combinations         []CombinationStats `json:"combinations"`
}

func (s *Stats) add(cs CombinationStats) {
	s.CombinationsExecuted++
	s.PagesRequested += cs.Pages
	if cs.Error != "" {
		s.PageFailures++
	}
	s.RawHits += cs.Results
	s.New += cs.New
	s.Duplicates += cs.Duplicates
	s.Rejected += cs.Rejected
	s.Combinations = append(s.Combinations, cs)
}

// Elapsed returns the wall time of the session.
func (s Stats) Elapsed() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
