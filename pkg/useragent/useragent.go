package useragent

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// Version is stamped into the default User-Agent. Overridden at build time
// with -ldflags "-X github.com/FranksOps/scout/pkg/useragent.Version=...".
var Version = "dev"

// Default returns the product User-Agent sent to search and text-generation APIs.
func Default() string {
	return fmt.Sprintf("scout/%s (%s; +https://github.com/FranksOps/scout)", Version, runtime.Version())
}

// Rotator hands out User-Agents round-robin. It is safe for concurrent use.
type Rotator struct {
	agents  []string
	counter atomic.Uint64
}

// NewRotator creates a rotator over agents. Blank entries are skipped; an
// empty list falls back to Default().
func NewRotator(agents []string) *Rotator {
	kept := make([]string, 0, len(agents))
	for _, a := range agents {
		if a != "" {
			kept = append(kept, a)
		}
	}
	if len(kept) == 0 {
		kept = append(kept, Default())
	}
	return &Rotator{agents: kept}
}

// Next returns the next User-Agent. A nil Rotator returns Default().
func (r *Rotator) Next() string {
	if r == nil || len(r.agents) == 0 {
		return Default()
	}
	idx := r.counter.Add(1) - 1
	return r.agents[idx%uint64(len(r.agents))]
}

// Len returns the number of agents in rotation.
func (r *Rotator) Len() int {
	if r == nil {
		return 0
	}
	return len(r.agents)
}
