package serp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/FranksOps/scout/pkg/httpclient"
	"github.com/FranksOps/scout/pkg/useragent"
)

const defaultSerperURL = "https://google.serper.dev/search"

// SerperConfig configures the serper.dev provider.
type SerperConfig struct {
	APIKey   string
	BaseURL  string
	Language string
	Country  string

	HTTPClient *httpclient.Client
	UserAgents *useragent.Rotator
}

// Serper queries https://google.serper.dev. It pages by 1-based page number
// rather than by offset.
type Serper struct {
	cfg SerperConfig
}

var _ Provider = (*Serper)(nil)

type serperRequest struct {
	Q    string `json:"q"`
	Num  int    `json:"num"`
	Page int    `json:"page"`
	HL   string `json:"hl,omitempty"`
	GL   string `json:"gl,omitempty"`
}

func NewSerper(cfg SerperConfig) (*Serper, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("serper: APIKey is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultSerperURL
	}
	if cfg.HTTPClient == nil {
		c, err := httpclient.New(httpclient.Config{})
		if err != nil {
			return nil, fmt.Errorf("serper: %w", err)
		}
		cfg.HTTPClient = c
	}
	return &Serper{cfg: cfg}, nil
}

func (s *Serper) Name() string { return "serper" }

func (s *Serper) Search(ctx context.Context, req PageRequest) ([]RawHit, error) {
	num := req.Num
	if num <= 0 {
		num = PageSize
	}

	payload, err := json.Marshal(serperRequest{
		Q:    req.Query,
		Num:  num,
		Page: req.Start/num + 1,
		HL:   s.cfg.Language,
		GL:   s.cfg.Country,
	})
	if err != nil {
		return nil, fmt.Errorf("serper: encode request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, s.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("serper: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-KEY", s.cfg.APIKey)
	httpReq.Header.Set("User-Agent", s.cfg.UserAgents.Next())

	resp, err := s.cfg.HTTPClient.Do(ctx, httpReq)
	if err != nil {
		return nil, fmt.Errorf("serper: %w", err)
	}
	defer resp.Body.Close()

	if err := httpclient.CheckResponse(resp); err != nil {
		return nil, fmt.Errorf("serper: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("serper: read body: %w", err)
	}

	hits, err := parseOrganic(body, "organic")
	if err != nil {
		return nil, fmt.Errorf("serper: %w", err)
	}
	return hits, nil
}
