// =============================================================================
// twitter.go - X (Twitter) API v2 クライアント
// =============================================================================
//
// このファイルはX API v2のツイート投稿エンドポイントのクライアントを提供します。
//
// 【認証について】
//   POST /2/tweets はOAuth 1.0aのユーザーコンテキスト認証が必要。
//   dghubble/oauth1 で署名付きのhttp.Clientを作り、それ経由でPOSTする。
//   認証情報は4つ（API key / API secret / access token / access secret）
//   すべて揃っている必要があり、欠けているものを列挙してエラーにする。
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

	"github.com/dghubble/oauth1"
)

const xAPIBaseURL = "https://api.x.com"

// TweetPoster はツイート投稿の抽象（テストで差し替える）
type TweetPoster interface {
	PostTweet(ctx context.Context, text string) (string, error)
}

// XClient はX API v2のHTTPクライアント
type XClient struct {
	baseURL string
	client  *http.Client
}

var _ TweetPoster = (*XClient)(nil)

// NewXClient はOAuth1署名付きクライアントを構築する
//
// 認証情報のいずれかが欠けている場合、欠けている環境変数名を
// すべて列挙したエラーを返す（余計なものは含めない）。
func NewXClient(cfg *Config) (*XClient, error) {
	var missing []string
	if cfg.XAPIKey == "" {
		missing = append(missing, "X_API_KEY")
	}
	if cfg.XAPISecret == "" {
		missing = append(missing, "X_API_SECRET")
	}
	if cfg.XAccessToken == "" {
		missing = append(missing, "X_ACCESS_TOKEN")
	}
	if cfg.XAccessSecret == "" {
		missing = append(missing, "X_ACCESS_SECRET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("以下の環境変数が設定されていません: %s", strings.Join(missing, ", "))
	}

	// 前後の空白はSecretsの貼り付けミスで混入しがちなので除去する
	oauthConfig := oauth1.NewConfig(
		strings.TrimSpace(cfg.XAPIKey),
		strings.TrimSpace(cfg.XAPISecret),
	)
	token := oauth1.NewToken(
		strings.TrimSpace(cfg.XAccessToken),
		strings.TrimSpace(cfg.XAccessSecret),
	)

	httpClient := oauthConfig.Client(oauth1.NoContext, token)
	httpClient.Timeout = 30 * time.Second

	return &XClient{
		baseURL: xAPIBaseURL,
		client:  httpClient,
	}, nil
}

// createTweetRequest は POST /2/tweets のリクエストボディ
type createTweetRequest struct {
	Text string `json:"text"`
}

// createTweetResponse は POST /2/tweets のレスポンスボディ
type createTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// PostTweet はツイートを投稿してX側のツイートIDを返す
func (x *XClient) PostTweet(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(createTweetRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("marshal tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("x api request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("x api error (status %d): %s",
			resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed createTweetResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if parsed.Data.ID == "" {
		return "", fmt.Errorf("x api response has no tweet id")
	}
	return parsed.Data.ID, nil
}
