package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FranksOps/scout/pkg/proxy"
)

// maxErrorBody bounds how much of a failed response body is kept in a StatusError.
const maxErrorBody = 512

// Config defines the setup for the HTTP Client.
type Config struct {
	// Timeout is the per-request client timeout. Zero means no client
	// timeout; callers are then expected to bound requests with a context.
	Timeout      time.Duration
	MaxRedirects int
	// UserAgent is applied to every request that does not already carry one.
	UserAgent string
	// Proxies, when non-empty, routes requests sent through Do via the pool.
	// It is ignored when Transport is set.
	Proxies   *proxy.Pool
	Transport http.RoundTripper
}

// Client wraps a standard http.Client for JSON API calls.
type Client struct {
	*http.Client
	userAgent string
	proxies   *proxy.Pool
}

type proxyKey struct{}

// proxyFromContext uses the proxy Do picked for the request, falling back to
// the environment.
func proxyFromContext(req *http.Request) (*url.URL, error) {
	if u, ok := req.Context().Value(proxyKey{}).(*url.URL); ok {
		return u, nil
	}
	return http.ProxyFromEnvironment(req)
}

// New creates a new HTTP client based on the provided configuration.
func New(cfg Config) (*Client, error) {
	if cfg.MaxRedirects == 0 {
		cfg.MaxRedirects = 5
	}

	c := &http.Client{
		Timeout: cfg.Timeout,
	}

	if cfg.MaxRedirects > 0 {
		c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("httpclient: stopped after %d redirects", cfg.MaxRedirects)
			}
			return nil
		}
	} else {
		c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	switch {
	case cfg.Transport != nil:
		c.Transport = cfg.Transport
		cfg.Proxies = nil
	case cfg.Proxies.Len() > 0:
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.Proxy = proxyFromContext
		c.Transport = t
	default:
		cfg.Proxies = nil
	}

	return &Client{Client: c, userAgent: cfg.UserAgent, proxies: cfg.Proxies}, nil
}

// Do executes req bound to ctx.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if ctx == nil {
		return nil, errors.New("httpclient: context cannot be nil")
	}

	via := c.proxies.Next()
	if via != nil {
		ctx = context.WithValue(ctx, proxyKey{}, via)
	}

	reqWithCtx := req.Clone(ctx)
	if c.userAgent != "" && reqWithCtx.Header.Get("User-Agent") == "" {
		reqWithCtx.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.Client.Do(reqWithCtx)
	if via != nil {
		c.proxies.Report(via, err)
	}
	if err != nil {
		return nil, fmt.Errorf("httpclient: %w", err)
	}
	return resp, nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// CheckResponse returns a StatusError carrying a bounded excerpt of the body
// when resp is not a 2xx. It does not close the body.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
