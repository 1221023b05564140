package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"damage-game/internal/config"

	"github.com/coder/quartz"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripFunc) *Client {
	c := NewClient(config.ProviderConfig{BaseURL: "http://llm.local/v1/", Model: "qwen2.5-14b-instruct-mlx", APIKey: "sk-test", Temperature: 0.7})
	c.inner = &http.Client{Transport: fn}
	return c
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

const okCompletion = `{"model":"qwen2.5-14b-instruct-mlx","choices":[{"message":{"role":"assistant","content":"{\"kind\":\"call\"}"}}],"usage":{"prompt_tokens":120,"completion_tokens":30,"total_tokens":150}}`

func TestCompleteSendsChatRequest(t *testing.T) {
	var got chatRequest
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.String() != "http://llm.local/v1/chat/completions" {
			t.Fatalf("unexpected url %s", req.URL)
		}
		if req.Header.Get("Authorization") != "Bearer sk-test" {
			t.Fatalf("missing bearer auth: %q", req.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(req.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return jsonResponse(http.StatusOK, okCompletion), nil
	})
	resp, err := c.Complete(context.Background(), Request{System: "sys", User: "usr", MaxTokens: 256})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != `{"kind":"call"}` || resp.Usage.TotalTokens != 150 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if got.Model != "qwen2.5-14b-instruct-mlx" || got.MaxTokens != 256 || len(got.Messages) != 2 {
		t.Fatalf("unexpected request %+v", got)
	}
	if got.ResponseFormat["type"] != "json_schema" {
		t.Fatalf("first attempt should ask for json_schema, got %v", got.ResponseFormat)
	}
}

func TestCompleteMeasuresLatency(t *testing.T) {
	clock := quartz.NewMock(t)
	c := newTestClient(func(*http.Request) (*http.Response, error) {
		clock.Advance(250 * time.Millisecond)
		return jsonResponse(http.StatusOK, okCompletion), nil
	}).WithClock(clock)
	resp, err := c.Complete(context.Background(), Request{System: "sys", User: "usr"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.LatencyMS != 250 {
		t.Fatalf("LatencyMS = %v, want 250", resp.LatencyMS)
	}
}

func TestCompleteFallsBackThroughResponseFormats(t *testing.T) {
	formats := []any{}
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		var body map[string]any
		_ = json.NewDecoder(req.Body).Decode(&body)
		formats = append(formats, body["response_format"])
		if len(formats) < 3 {
			return jsonResponse(http.StatusBadRequest, `{"error":"response_format unsupported"}`), nil
		}
		return jsonResponse(http.StatusOK, okCompletion), nil
	})
	if _, err := c.Complete(context.Background(), Request{User: "x", Model: "other-model"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(formats) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(formats))
	}
	if formats[2] != nil {
		t.Fatalf("last attempt should omit response_format, got %v", formats[2])
	}
}

func TestCompleteReturnsUpstreamError(t *testing.T) {
	calls := 0
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(http.StatusInternalServerError, `boom`), nil
	})
	_, err := c.Complete(context.Background(), Request{User: "x"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected every variant tried, got %d", calls)
	}
}

func TestCompleteMalformedBody(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"choices":[]}`), nil
	})
	if _, err := c.Complete(context.Background(), Request{User: "x"}); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestListModels(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodGet || req.URL.Path != "/v1/models" {
			t.Fatalf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		return jsonResponse(http.StatusOK, `{"data":[{"id":"a-14b"},{"id":""},{"id":"b-24b"}]}`), nil
	})
	models, err := c.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(models) != 2 || models[1] != "b-24b" {
		t.Fatalf("unexpected models %v", models)
	}
}

func TestListModelsTransportError(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	if _, err := c.ListModels(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
