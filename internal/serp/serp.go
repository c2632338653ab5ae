package serp

import (
	"context"
	"fmt"
)

// PageSize is the maximum number of organic results a provider returns per page.
const PageSize = 10

// RawHit is a single organic result as returned by a provider. Hits are
// opaque to this package; interpretation happens in the profile registry.
type RawHit struct {
	Link  string `json:"link"`
	Title string `json:"title"`
}

// PageRequest describes one page of results for a query. Start is the
// zero-based result offset.
type PageRequest struct {
	Query string
	Num   int
	Start int
}

// Provider abstracts a web-search API that returns organic results one page
// at a time. An empty slice with a nil error means the provider is exhausted.
type Provider interface {
	Name() string
	Search(ctx context.Context, req PageRequest) ([]RawHit, error)
}

// PageFetchError records a failed page request. It ends pagination for a
// single query and is never fatal to a session.
type PageFetchError struct {
	Query string
	Page  int
	Err   error
}

func (e *PageFetchError) Error() string {
	return fmt.Sprintf("serp: page %d of %q: %v", e.Page, e.Query, e.Err)
}

func (e *PageFetchError) Unwrap() error {
	return e.Err
}

// Result is the outcome of executing one query. Err is set when pagination
// stopped because a page request failed; Hits still holds everything
// accumulated before the failure.
type Result struct {
	Hits  []RawHit
	Pages int
	Err   *PageFetchError
}

// Failed reports whether pagination was cut short by a page failure.
func (r Result) Failed() bool {
	return r.Err != nil
}
