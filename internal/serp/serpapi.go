package serp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/FranksOps/scout/pkg/httpclient"
	"github.com/FranksOps/scout/pkg/useragent"
)

const defaultSerpAPIURL = "https://serpapi.com/search"

// SerpAPIConfig configures the SerpAPI Google engine provider.
type SerpAPIConfig struct {
	APIKey   string
	BaseURL  string
	Language string
	Country  string

	HTTPClient *httpclient.Client
	UserAgents *useragent.Rotator
}

// SerpAPI queries https://serpapi.com with engine=google.
type SerpAPI struct {
	cfg SerpAPIConfig
}

var _ Provider = (*SerpAPI)(nil)

func NewSerpAPI(cfg SerpAPIConfig) (*SerpAPI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("serpapi: APIKey is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultSerpAPIURL
	}
	if cfg.HTTPClient == nil {
		c, err := httpclient.New(httpclient.Config{})
		if err != nil {
			return nil, fmt.Errorf("serpapi: %w", err)
		}
		cfg.HTTPClient = c
	}
	return &SerpAPI{cfg: cfg}, nil
}

func (s *SerpAPI) Name() string { return "serpapi" }

func (s *SerpAPI) Search(ctx context.Context, req PageRequest) ([]RawHit, error) {
	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("api_key", s.cfg.APIKey)
	params.Set("engine", "google")
	params.Set("num", strconv.Itoa(req.Num))
	params.Set("start", strconv.Itoa(req.Start))
	if s.cfg.Language != "" {
		params.Set("hl", s.cfg.Language)
	}
	if s.cfg.Country != "" {
		params.Set("gl", s.cfg.Country)
	}

	httpReq, err := http.NewRequest(http.MethodGet, s.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("serpapi: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", s.cfg.UserAgents.Next())

	resp, err := s.cfg.HTTPClient.Do(ctx, httpReq)
	if err != nil {
		return nil, fmt.Errorf("serpapi: %w", err)
	}
	defer resp.Body.Close()

	if err := httpclient.CheckResponse(resp); err != nil {
		return nil, fmt.Errorf("serpapi: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("serpapi: read body: %w", err)
	}

	hits, err := parseOrganic(body, "organic_results")
	if err != nil {
		return nil, fmt.Errorf("serpapi: %w", err)
	}
	if hits == nil {
		// SerpAPI reports an empty result set through its error field.
		if msg := gjson.GetBytes(body, "error").String(); msg != "" && !isNoResults(msg) {
			return nil, fmt.Errorf("serpapi: %s", msg)
		}
	}
	return hits, nil
}

func isNoResults(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "hasn't returned any results")
}
