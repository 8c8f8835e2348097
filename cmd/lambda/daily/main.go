// =============================================================================
// Lambda: daily-run
// =============================================================================
//
// ニュース取得 -> ツイート案生成 -> ドラフト通知 を1回で実行するLambda関数。
// EventBridgeのスケジュールから起動する想定（CLIのfetch/generate/notifyを
// GitHub Actionsで順番に呼ぶのと等価）。
//
// 環境変数:
//   - SESSION_TYPE:      セッション種別 (デフォルト: morning)
//   - BASE_DIR:          データディレクトリ (デフォルト: /tmp/news-bot)
//   - ANTHROPIC_API_KEY: Claude APIキー (必須)
//   - SLACK_WEBHOOK_URL / DISCORD_WEBHOOK_URL: 通知先 (任意)
//
// =============================================================================
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/daikon0313/news-bot/internal/pipeline"
)

// Response はLambdaレスポンス
type Response struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	NewsFile   string `json:"newsFile,omitempty"`
	TweetsFile string `json:"tweetsFile,omitempty"`
}

// Handler はLambdaのメインハンドラー
func Handler(ctx context.Context, event any) (Response, error) {
	log.Println("Starting daily-run Lambda...")

	sessionType := os.Getenv("SESSION_TYPE")
	if sessionType == "" {
		sessionType = "morning"
	}
	baseDir := os.Getenv("BASE_DIR")
	if baseDir == "" {
		baseDir = "/tmp/news-bot"
	}

	cfg := pipeline.LoadConfig(baseDir)
	if cfg.AnthropicAPIKey == "" {
		err := fmt.Errorf("ANTHROPIC_API_KEY is required")
		return Response{StatusCode: 400, Message: err.Error()}, err
	}
	if catalog, err := pipeline.LoadSourceCatalog(cfg.SourcesPath); err == nil {
		cfg.ApplyCatalog(catalog)
	}

	log.Printf("Config: sessionType=%s, baseDir=%s", sessionType, baseDir)

	// 1. ニュース取得
	newsFile, err := pipeline.NewFetcher(cfg).RunFetch(sessionType)
	if err != nil {
		log.Printf("Error fetching news: %v", err)
		return Response{StatusCode: 500, Message: err.Error()}, err
	}
	log.Printf("Fetched news: %s", newsFile)

	// 2. ツイート案生成
	tweetsFile, err := pipeline.NewGenerator(cfg, nil).RunGenerate(ctx, sessionType)
	if err != nil {
		log.Printf("Error generating tweets: %v", err)
		return Response{StatusCode: 500, Message: err.Error(), NewsFile: newsFile}, err
	}
	log.Printf("Generated tweets: %s", tweetsFile)

	// 3. ドラフト通知（Webhook未設定ならスキップされる）
	if err := pipeline.NewNotifier(cfg).RunNotify("draft", sessionType, ""); err != nil {
		log.Printf("Error sending notification: %v", err)
	}

	return Response{
		StatusCode: 200,
		Message:    "daily run completed",
		NewsFile:   newsFile,
		TweetsFile: tweetsFile,
	}, nil
}

func main() {
	lambda.Start(Handler)
}
