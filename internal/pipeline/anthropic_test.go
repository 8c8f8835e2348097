package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAnthropicClientComplete(t *testing.T) {
	var gotReq anthropicRequest
	var gotAPIKey, gotVersion string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"content": [{"type": "thinking", "thinking": "..."}, {"type": "text", "text": "generated tweets"}]}`)
	}))
	t.Cleanup(srv.Close)

	c := NewAnthropicClient("test-key", "claude-sonnet-4-5-20250929")
	c.baseURL = srv.URL

	got, err := c.Complete(context.Background(), "prompt body", 2048)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	// 最初のtextブロックが返る（text以外のブロックは読み飛ばす）
	if got != "generated tweets" {
		t.Errorf("Complete = %q", got)
	}

	if gotAPIKey != "test-key" {
		t.Errorf("x-api-key = %q", gotAPIKey)
	}
	if gotVersion != "2023-06-01" {
		t.Errorf("anthropic-version = %q", gotVersion)
	}
	if gotReq.Model != "claude-sonnet-4-5-20250929" || gotReq.MaxTokens != 2048 {
		t.Errorf("unexpected request: %+v", gotReq)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "prompt body" {
		t.Errorf("unexpected messages: %+v", gotReq.Messages)
	}
}

func TestAnthropicClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"type": "rate_limit_error"}}`)
	}))
	t.Cleanup(srv.Close)

	c := NewAnthropicClient("test-key", "model")
	c.baseURL = srv.URL

	_, err := c.Complete(context.Background(), "p", 100)
	if err == nil || !strings.Contains(err.Error(), "status 429") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestAnthropicClientNoTextContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content": []}`)
	}))
	t.Cleanup(srv.Close)

	c := NewAnthropicClient("test-key", "model")
	c.baseURL = srv.URL

	_, err := c.Complete(context.Background(), "p", 100)
	if err == nil || !strings.Contains(err.Error(), "no text content") {
		t.Fatalf("expected no-text error, got %v", err)
	}
}
