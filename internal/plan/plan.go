package plan

// DefaultPriority is assigned to combinations that omit a priority.
const DefaultPriority = 5

// Combination is one structured search proposal. It is never mutated after
// generation.
type Combination struct {
	JobTitle  string `json:"job_title"`
	Company   string `json:"company"`
	Location  string `json:"location"`
	Priority  int    `json:"priority"`
	XRayQuery string `json:"xray_query"`
}

// Plan is the ordered output of one generation call. Combinations are sorted
// ascending by Priority, preserving generation order among equal priorities.
// NegativeSignals are scoring metadata only and never alter a query.
type Plan struct {
	Combinations    []Combination `json:"combinations"`
	NegativeSignals []string      `json:"negative_signals"`
}

// Queries returns the search strings in execution order.
func (p *Plan) Queries() []string {
	out := make([]string, len(p.Combinations))
	for i, c := range p.Combinations {
		out[i] = c.XRayQuery
	}
	return out
}
