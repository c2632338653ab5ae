package serp

import (
	"context"
	"time"

	"github.com/FranksOps/scout/internal/metrics"
	"github.com/FranksOps/scout/pkg/logging"
	"github.com/FranksOps/scout/pkg/ratelimit"
)

// DefaultPageTimeout bounds every page request.
const DefaultPageTimeout = 30 * time.Second

// ExecutorConfig configures an Executor.
type ExecutorConfig struct {
	PageTimeout time.Duration
	// Pacer spaces consecutive page requests. Nil disables pacing.
	Pacer  *ratelimit.Pacer
	Logger *logging.Logger
}

// Executor runs one query against a Provider, page by page.
type Executor struct {
	provider    Provider
	pageTimeout time.Duration
	pacer       *ratelimit.Pacer
	log         *logging.Logger
}

func NewExecutor(p Provider, cfg ExecutorConfig) *Executor {
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = DefaultPageTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	return &Executor{
		provider:    p,
		pageTimeout: cfg.PageTimeout,
		pacer:       cfg.Pacer,
		log:         cfg.Logger.With("provider", p.Name()),
	}
}

// PagesNeeded returns how many pages are required to collect n results.
func PagesNeeded(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + PageSize - 1) / PageSize
}

// Execute collects up to resultsPerQuery hits for query. Pagination stops
// when a page comes back empty, when enough hits have accumulated, or after
// PagesNeeded(resultsPerQuery) pages. A failed page ends pagination for this
// query only; it is reported in Result.Err and never returned as an error.
func (e *Executor) Execute(ctx context.Context, query string, resultsPerQuery int) Result {
	var res Result
	if resultsPerQuery <= 0 {
		return res
	}
	pages := PagesNeeded(resultsPerQuery)

	for page := 0; page < pages; page++ {
		if err := e.pacer.Wait(ctx); err != nil {
			res.Err = &PageFetchError{Query: query, Page: page + 1, Err: err}
			e.log.Warn("search page skipped", "query", query, "page", page+1, "error", err)
			break
		}

		hits, err := e.fetch(ctx, PageRequest{
			Query: query,
			Num:   PageSize,
			Start: page * PageSize,
		})
		res.Pages++
		if err != nil {
			res.Err = &PageFetchError{Query: query, Page: page + 1, Err: err}
			e.log.Warn("search page failed", "query", query, "page", page+1, "error", err)
			break
		}

		e.log.Debug("search page fetched", "query", query, "page", page+1, "hits", len(hits))

		if len(hits) == 0 {
			break
		}
		res.Hits = append(res.Hits, hits...)
		if len(res.Hits) >= resultsPerQuery {
			break
		}
	}

	if len(res.Hits) > resultsPerQuery {
		res.Hits = res.Hits[:resultsPerQuery]
	}
	return res
}

func (e *Executor) fetch(ctx context.Context, req PageRequest) ([]RawHit, error) {
	ctx, cancel := context.WithTimeout(ctx, e.pageTimeout)
	defer cancel()

	start := time.Now()
	hits, err := e.provider.Search(ctx, req)
	metrics.RecordPage(e.provider.Name(), len(hits), time.Since(start), err)
	return hits, err
}
