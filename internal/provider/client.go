package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"damage-game/internal/config"

	"github.com/coder/quartz"
)

var (
	ErrUpstream  = errors.New("upstream_error")
	ErrMalformed = errors.New("malformed_provider_response")
)

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Request struct {
	System    string
	User      string
	MaxTokens int
	Model     string
}

type Response struct {
	Content   string  `json:"content"`
	Usage     Usage   `json:"usage"`
	Model     string  `json:"model"`
	LatencyMS float64 `json:"latency_ms"`
}

// Completer is one chat completion round trip.
type Completer interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

type CompleterFunc func(ctx context.Context, req Request) (Response, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []message      `json:"messages"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// Client talks to an OpenAI-compatible /chat/completions endpoint.
type Client struct {
	baseURL     string
	model       string
	apiKey      string
	temperature float64
	inner       *http.Client
	clock       quartz.Clock
}

func NewClient(cfg config.ProviderConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		apiKey:      cfg.APIKey,
		temperature: cfg.Temperature,
		inner:       &http.Client{Timeout: timeout},
		clock:       quartz.NewReal(),
	}
}

// WithClock replaces the clock used for latency measurement.
func (c *Client) WithClock(clock quartz.Clock) *Client {
	c.clock = clock
	return c
}

// responseFormats lists the variants tried in order. Some local servers reject
// json_schema, others reject any response_format at all.
func responseFormats() []map[string]any {
	return []map[string]any{
		{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "action_response",
				"schema": map[string]any{"type": "object"},
				"strict": false,
			},
		},
		{"type": "text"},
		nil,
	}
}

func (c *Client) Complete(ctx context.Context, req Request) (Response, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 350
	}
	base := chatRequest{
		Model: model,
		Messages: []message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: c.temperature,
		MaxTokens:   maxTokens,
	}

	var (
		body    []byte
		elapsed time.Duration
		lastErr error
	)
	for _, format := range responseFormats() {
		variant := base
		variant.ResponseFormat = format
		started := c.clock.Now()
		b, err := c.post(ctx, c.baseURL+"/chat/completions", variant)
		elapsed = c.clock.Since(started)
		if err == nil {
			body = b
			break
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	if body == nil {
		if lastErr == nil {
			lastErr = ErrUpstream
		}
		return Response{}, lastErr
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(parsed.Choices) == 0 {
		return Response{}, fmt.Errorf("%w: no choices", ErrMalformed)
	}
	resolved := parsed.Model
	if resolved == "" {
		resolved = model
	}
	return Response{
		Content:   parsed.Choices[0].Message.Content,
		Usage:     parsed.Usage,
		Model:     resolved,
		LatencyMS: float64(elapsed.Microseconds()) / 1000,
	}, nil
}

func (c *Client) post(ctx context.Context, url string, body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)
	return c.do(req)
}

// ListModels returns the ids served at /models.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)
	b, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	out := make([]string, 0, len(payload.Data))
	for _, m := range payload.Data {
		if m.ID != "" {
			out = append(out, m.ID)
		}
	}
	return out, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.inner.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider connection error: %w", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, truncate(string(b), 200))
	}
	return b, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
