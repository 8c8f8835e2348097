// =============================================================================
// generate.go - Claude APIによるツイート案の生成
// =============================================================================
//
// このファイルは取得済みニュース（drafts/news_*.json）をプロンプトに埋め込み、
// Claude APIでツイート案を生成して drafts/tweets_*.json に保存します。
//
// 【処理の流れ】
//   1. APIキーの存在チェック（なければネットワークアクセスせず即失敗）
//   2. 当日のニュースJSONを読み込み
//   3. テンプレート（templates/prompt_template.md）にニュース一覧と件数を埋め込み
//   4. Claude API呼び出し
//   5. レスポンスからツイート配列を抽出（extract.go）
//   6. 各ツイートにID・生成日時・セッション種別を付与して保存
//
// =============================================================================
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const promptTemplateName = "prompt_template.md"

// Generator はツイート案の生成を担当する
type Generator struct {
	cfg *Config
	llm Completer
}

// NewGenerator はGeneratorを作成する
//
// llmがnilの場合はConfigの認証情報からAnthropicClientを構築する
// （実際の構築はRun内、APIキー検証の後に行う）。
func NewGenerator(cfg *Config, llm Completer) *Generator {
	return &Generator{cfg: cfg, llm: llm}
}

// RunGenerate はgenerateステージ全体を実行する。保存先パスを返す。
func (g *Generator) RunGenerate(ctx context.Context, sessionType string) (string, error) {
	if err := ValidateSessionType(sessionType); err != nil {
		return "", err
	}
	if g.llm == nil {
		if g.cfg.AnthropicAPIKey == "" {
			return "", fmt.Errorf("環境変数 ANTHROPIC_API_KEY が設定されていません")
		}
		g.llm = NewAnthropicClient(g.cfg.AnthropicAPIKey, g.cfg.ClaudeModel)
	}
	if err := g.cfg.EnsureDirs(); err != nil {
		return "", err
	}

	// ニュース読み込み
	newsPath := g.cfg.NewsFilePath(sessionType, g.cfg.Today())
	var articles []Article
	if err := readJSONFile(newsPath, &articles); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("ニュースファイルが見つかりません: %s", newsPath)
		}
		return "", fmt.Errorf("read news file: %w", err)
	}
	infof("ニュース記事 %d 件を読み込みました", len(articles))

	// プロンプト構築
	prompt, err := g.buildPrompt(articles)
	if err != nil {
		return "", err
	}

	// Claude API呼び出し
	infof("Claude API を呼び出し中 (model=%s) ...", g.cfg.ClaudeModel)
	responseText, err := g.llm.Complete(ctx, prompt, maxResponseTokens)
	if err != nil {
		return "", fmt.Errorf("claude api: %w", err)
	}
	infof("Claude API からレスポンスを取得しました")

	// JSON抽出
	tweets, err := ExtractTweetArray(responseText)
	if err != nil {
		return "", err
	}
	infof("ツイート %d 件を生成しました", len(tweets))

	// メタデータ付与
	nowISO := g.cfg.Now().Format(time.RFC3339)
	for i := range tweets {
		tweets[i].ID = uuid.NewString()
		tweets[i].GeneratedAt = nowISO
		tweets[i].SessionType = sessionType
	}

	// 保存
	outPath := g.cfg.TweetsFilePath(sessionType, g.cfg.Today())
	if err := writeJSONFile(outPath, tweets); err != nil {
		return "", fmt.Errorf("write tweets file: %w", err)
	}

	infof("保存完了: %s", outPath)
	return outPath, nil
}

// buildPrompt はテンプレートにニュース一覧と生成件数を埋め込む
func (g *Generator) buildPrompt(articles []Article) (string, error) {
	templatePath := filepath.Join(g.cfg.TemplatesDir, promptTemplateName)
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("テンプレートが見つかりません: %s", templatePath)
		}
		return "", fmt.Errorf("read template: %w", err)
	}

	prompt := strings.ReplaceAll(string(raw), "{news_articles}", renderArticlesBlock(articles))
	prompt = strings.ReplaceAll(prompt, "{tweets_per_session}", strconv.Itoa(g.cfg.TweetsPerSession))
	return prompt, nil
}

// renderArticlesBlock はニュース記事を番号付きテキストに変換する
func renderArticlesBlock(articles []Article) string {
	var b strings.Builder
	for i, article := range articles {
		summary := article.Summary
		if summary == "" {
			summary = "N/A"
		}
		fmt.Fprintf(&b, "[%d] %s\n", i+1, article.Title)
		fmt.Fprintf(&b, "    URL: %s\n", article.URL)
		fmt.Fprintf(&b, "    ソース: %s (%s)\n", article.Source, article.Category)
		fmt.Fprintf(&b, "    概要: %s\n\n", summary)
	}
	return b.String()
}
