package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/FranksOps/scout/internal/config"
	"github.com/FranksOps/scout/internal/metrics"
	"github.com/FranksOps/scout/internal/plan"
	"github.com/FranksOps/scout/internal/profile"
	"github.com/FranksOps/scout/internal/serp"
	"github.com/FranksOps/scout/pkg/httpclient"
	"github.com/FranksOps/scout/pkg/logging"
	"github.com/FranksOps/scout/pkg/openai"
	"github.com/FranksOps/scout/pkg/proxy"
	"github.com/FranksOps/scout/pkg/ratelimit"
	"github.com/FranksOps/scout/pkg/useragent"
)

const (
	DefaultNumQueries      = 10
	DefaultResultsPerQuery = 50
	DefaultMaxResults      = 100
)

// Planner produces the ordered query plan for a description.
type Planner interface {
	Generate(ctx context.Context, description string, count int) (*plan.Plan, error)
}

// Searcher runs one query to completion. Page failures are reported inside
// the returned serp.Result, never as an error.
type Searcher interface {
	Execute(ctx context.Context, query string, resultsPerQuery int) serp.Result
}

// Pipeline drives a search session: plan once, then execute combinations in
// priority order, folding hits into a fresh registry until it is full or the
// plan is exhausted. A Pipeline runs sessions strictly sequentially.
type Pipeline struct {
	planner  Planner
	searcher Searcher
	log      *logging.Logger
}

// New validates the credentials in cfg and wires the text-generation client
// and search provider. A *config.ConfigurationError is returned before any
// collaborator is built when a credential is missing.
func New(cfg config.Config, logger *logging.Logger) (*Pipeline, error) {
	if err := cfg.ValidateCredentials(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Nop()
	}

	agents := useragent.NewRotator(cfg.UserAgents)

	proxies := proxy.NewPool(proxy.Config{})
	if err := proxies.Add(cfg.Proxies...); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if cfg.ProxyFile != "" {
		if err := proxies.LoadFile(cfg.ProxyFile); err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
	}

	// Page requests are bounded per page by the executor's context; the
	// text-generation call has no upper bound.
	hc, err := httpclient.New(httpclient.Config{Proxies: proxies})
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	llm, err := openai.NewClient(openai.Config{
		APIKey:     cfg.TextGenAPIKey,
		Model:      cfg.Model,
		Endpoint:   cfg.TextGenEndpoint,
		Retries:    cfg.LLMRetries,
		HTTPClient: hc,
		UserAgent:  agents.Next(),
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	provider, err := newProvider(cfg, hc, agents)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	pacer := ratelimit.NewPacer(cfg.RequestsPerSecond, cfg.Jitter)
	executor := serp.NewExecutor(provider, serp.ExecutorConfig{
		PageTimeout: cfg.PageTimeout,
		Pacer:       pacer,
		Logger:      logger,
	})

	logger.Debug("pipeline configured",
		"provider", provider.Name(), "model", llm.Model(),
		"proxies", proxies.Len(), "page_interval", pacer.Interval())

	return NewWithComponents(plan.NewGenerator(llm, logger), executor, logger), nil
}

func newProvider(cfg config.Config, hc *httpclient.Client, agents *useragent.Rotator) (serp.Provider, error) {
	switch cfg.Provider {
	case config.ProviderSerper:
		return serp.NewSerper(serp.SerperConfig{
			APIKey:     cfg.SearchAPIKey,
			BaseURL:    cfg.SearchEndpoint,
			Language:   cfg.Language,
			Country:    cfg.Country,
			HTTPClient: hc,
			UserAgents: agents,
		})
	case config.ProviderSerpAPI, "":
		return serp.NewSerpAPI(serp.SerpAPIConfig{
			APIKey:     cfg.SearchAPIKey,
			BaseURL:    cfg.SearchEndpoint,
			Language:   cfg.Language,
			Country:    cfg.Country,
			HTTPClient: hc,
			UserAgents: agents,
		})
	default:
		return nil, &config.ConfigurationError{Invalid: []string{fmt.Sprintf("provider %q", cfg.Provider)}}
	}
}

// NewWithComponents builds a Pipeline from already-constructed collaborators.
func NewWithComponents(planner Planner, searcher Searcher, logger *logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Pipeline{planner: planner, searcher: searcher, log: logger}
}

// Request describes one search session. Zero counts take the package defaults.
type Request struct {
	Description     string
	NumQueries      int
	ResultsPerQuery int
	MaxResults      int
}

func (r *Request) normalize() error {
	if r.NumQueries == 0 {
		r.NumQueries = DefaultNumQueries
	}
	if r.ResultsPerQuery == 0 {
		r.ResultsPerQuery = DefaultResultsPerQuery
	}
	if r.MaxResults == 0 {
		r.MaxResults = DefaultMaxResults
	}
	if r.NumQueries < 1 || r.ResultsPerQuery < 1 || r.MaxResults < 1 {
		return errors.New("pipeline: query count, results per query and max results must be positive")
	}
	return nil
}

// Result is the terminal output of a session.
type Result struct {
	Profiles []profile.Profile
	Plan     *plan.Plan
	Stats    Stats
}

// Plan runs the planning stage only.
func (p *Pipeline) Plan(ctx context.Context, description string, numQueries int) (*plan.Plan, error) {
	if numQueries == 0 {
		numQueries = DefaultNumQueries
	}
	return p.planner.Generate(ctx, description, numQueries)
}

// Search runs a session and returns the profiles in rank order.
func (p *Pipeline) Search(ctx context.Context, description string, numQueries, resultsPerQuery, maxResults int) ([]profile.Profile, error) {
	res, err := p.Run(ctx, Request{
		Description:     description,
		NumQueries:      numQueries,
		ResultsPerQuery: resultsPerQuery,
		MaxResults:      maxResults,
	})
	if err != nil {
		return nil, err
	}
	return res.Profiles, nil
}

// Run executes a full session. The returned error is a *plan.GenerationError,
// a context error, or a request validation error; page failures only shrink
// the result.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	stats := Stats{
		SessionID: uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := p.log.With("session", stats.SessionID)

	log.Info("planning", "combinations", req.NumQueries)
	qp, err := p.planner.Generate(ctx, req.Description, req.NumQueries)
	if err != nil {
		return nil, err
	}
	stats.CombinationsPlanned = len(qp.Combinations)

	registry := profile.NewRegistry()

	for i, combo := range qp.Combinations {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}

		log.Info("executing combination",
			"index", i+1, "of", len(qp.Combinations),
			"priority", combo.Priority, "query", combo.XRayQuery)

		res := p.searcher.Execute(ctx, combo.XRayQuery, req.ResultsPerQuery)
		cs := CombinationStats{
			Priority: combo.Priority,
			Query:    combo.XRayQuery,
			Pages:    res.Pages,
			Results:  len(res.Hits),
		}
		if res.Err != nil {
			cs.Error = res.Err.Error()
		}

		for _, hit := range res.Hits {
			outcome, prof := registry.Ingest(hit, combo.XRayQuery)
			metrics.RecordProfile(outcome.String())

			switch outcome {
			case profile.Added:
				cs.New++
				log.Debug("new profile", "rank", prof.Rank, "url", prof.URL, "name", prof.Name)
			case profile.Duplicate:
				cs.Duplicates++
			case profile.Rejected:
				cs.Rejected++
				log.Debug("hit rejected", "link", hit.Link)
			}
		}

		log.Info("combination done",
			"index", i+1, "results", cs.Results, "new", cs.New, "duplicates", cs.Duplicates)
		stats.add(cs)

		if registry.Size() >= req.MaxResults {
			stats.StoppedEarly = i < len(qp.Combinations)-1
			log.Info("profile target reached", "profiles", registry.Size(), "target", req.MaxResults)
			break
		}
	}

	stats.Profiles = registry.Size()
	stats.FinishedAt = time.Now()

	log.Info("session complete",
		"profiles", stats.Profiles, "combinations_executed", stats.CombinationsExecuted,
		"page_failures", stats.PageFailures, "elapsed", stats.Elapsed())

	return &Result{
		Profiles: registry.Profiles(),
		Plan:     qp,
		Stats:    stats,
	}, nil
}
