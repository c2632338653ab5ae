package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/FranksOps/scout/pkg/httpclient"
	"github.com/FranksOps/scout/pkg/useragent"
)

const (
	defaultEndpoint  = "https://api.openai.com/v1/chat/completions"
	DefaultModel     = "gpt-5-mini-2025-08-07"
	DefaultMaxTokens = 3000
)

// Config configures a chat-completions client.
type Config struct {
	APIKey    string
	Model     string
	Endpoint  string
	MaxTokens int
	// Retries is the number of transport-level retries on connection errors,
	// 429 and 5xx responses. Zero issues exactly one request.
	Retries int

	// HTTPClient supplies the underlying transport. Its Timeout should be
	// zero: completions are bounded only by the caller's context.
	HTTPClient *httpclient.Client
	UserAgent  string
}

// Client sends single-prompt chat completions.
type Client struct {
	apiKey    string
	model     string
	endpoint  string
	maxTokens int
	userAgent string
	rc        *retryablehttp.Client
}

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	MaxCompletionTokens int           `json:"max_completion_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient validates cfg and fills in defaults.
func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai: APIKey is required")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = useragent.Default()
	}

	rc := retryablehttp.NewClient()
	rc.Logger = log.New(io.Discard, "", 0)
	rc.RetryMax = cfg.Retries
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if cfg.HTTPClient != nil {
		rc.HTTPClient = cfg.HTTPClient.Client
	} else {
		rc.HTTPClient = &http.Client{}
	}

	return &Client{
		apiKey:    apiKey,
		model:     model,
		endpoint:  endpoint,
		maxTokens: maxTokens,
		userAgent: userAgent,
		rc:        rc,
	}, nil
}

// Model returns the model completions are requested from.
func (c *Client) Model() string {
	return c.model
}

// Complete sends prompt as a single user message and returns the text of the
// first choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:               c.model,
		Messages:            []chatMessage{{Role: "user", Content: prompt}},
		MaxCompletionTokens: c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai: encode request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.rc.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr)
		if apiErr.Error.Message != "" {
			return "", fmt.Errorf("openai: %s (HTTP %d)", apiErr.Error.Message, resp.StatusCode)
		}
		return "", fmt.Errorf("openai: request failed with HTTP %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("openai: response contained no choices")
	}

	return out.Choices[0].Message.Content, nil
}
