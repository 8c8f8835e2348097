// =============================================================================
// anthropic.go - Claude API (Messages API) クライアント
// =============================================================================
//
// このファイルはAnthropic Messages APIの最小限のクライアントを提供します。
// ツイート生成で使うのは単発のuserメッセージ1つだけなので、
// ツール呼び出しやストリーミングは扱わない。
//
// 【APIの要点】
//   - エンドポイント: POST https://api.anthropic.com/v1/messages
//   - 認証: x-api-key ヘッダー + anthropic-version ヘッダー
//   - レスポンスのcontentはブロックの配列。最初のtextブロックを採用する
//
// =============================================================================
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const anthropicDefaultBaseURL = "https://api.anthropic.com"

// Completer は補完エンドポイントの抽象（テストで差し替える）
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// AnthropicClient はClaude APIのHTTPクライアント
type AnthropicClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

var _ Completer = (*AnthropicClient)(nil)

// NewAnthropicClient はクライアントを作成する
func NewAnthropicClient(apiKey, model string) *AnthropicClient {
	return &AnthropicClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: anthropicDefaultBaseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// anthropicRequest はMessages APIのリクエストボディ
type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse はMessages APIのレスポンスボディ（必要な部分のみ）
type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Complete はプロンプトを送信して最初のtextブロックを返す
func (c *AnthropicClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("claude api request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("claude api error (status %d): %s",
			resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	for _, block := range parsed.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("claude response has no text content")
}
