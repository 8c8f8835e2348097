package pipeline

import (
	"context"
	"strings"
	"testing"
)

// fakeCompleter は固定レスポンスを返すCompleter実装
type fakeCompleter struct {
	response  string
	err       error
	gotPrompt string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string, _ int) (string, error) {
	f.gotPrompt = prompt
	return f.response, f.err
}

const testTemplate = `以下のニュースから{tweets_per_session}件のツイート案を作成してください。

{news_articles}

JSON配列で出力してください。`

func setupGenerateFixtures(t *testing.T, cfg *Config) {
	t.Helper()
	writeTestFile(t, cfg.TemplatesDir+"/"+promptTemplateName, testTemplate)
	writeTestFile(t, cfg.NewsFilePath("morning", cfg.Today()), `[
  {"title": "Go 1.25 Released", "url": "https://example.com/go125", "summary": "新リリース", "source": "Test Feed", "category": "Tech"},
  {"title": "Ask HN: Editors", "url": "https://example.com/ask", "summary": "", "source": "Hacker News", "category": "Tech"}
]`)
}

func TestRunGenerate(t *testing.T) {
	cfg := newTestConfig(t)
	setupGenerateFixtures(t, cfg)

	llm := &fakeCompleter{response: "```json\n" + `[
  {"tweet_text": "Go 1.25が出ました", "source_title": "Go 1.25 Released", "source_url": "https://example.com/go125", "category": "Tech", "status": "pending"},
  {"tweet_text": "エディタ談義", "source_title": "Ask HN: Editors", "source_url": "https://example.com/ask", "category": "Tech", "status": "pending"}
]` + "\n```"}

	g := NewGenerator(cfg, llm)
	outPath, err := g.RunGenerate(context.Background(), "morning")
	if err != nil {
		t.Fatalf("RunGenerate: %v", err)
	}
	if outPath != cfg.TweetsFilePath("morning", "2026-08-30") {
		t.Errorf("unexpected output path: %q", outPath)
	}

	// プロンプトにはニュース一覧と生成件数が埋め込まれる
	if !strings.Contains(llm.gotPrompt, "[1] Go 1.25 Released") {
		t.Errorf("prompt should contain numbered article list:\n%s", llm.gotPrompt)
	}
	if !strings.Contains(llm.gotPrompt, "5件のツイート案") {
		t.Errorf("prompt should contain tweets_per_session:\n%s", llm.gotPrompt)
	}
	if !strings.Contains(llm.gotPrompt, "概要: N/A") {
		t.Errorf("empty summary should render as N/A:\n%s", llm.gotPrompt)
	}

	var tweets []Tweet
	if err := readJSONFile(outPath, &tweets); err != nil {
		t.Fatalf("read tweets file: %v", err)
	}
	if len(tweets) != 2 {
		t.Fatalf("expected 2 tweets, got %d", len(tweets))
	}
	for i, tweet := range tweets {
		if tweet.ID == "" {
			t.Errorf("tweet %d: id should be assigned", i)
		}
		if tweet.GeneratedAt != "2026-08-30T09:00:00+09:00" {
			t.Errorf("tweet %d: generated_at = %q", i, tweet.GeneratedAt)
		}
		if tweet.SessionType != "morning" {
			t.Errorf("tweet %d: session_type = %q", i, tweet.SessionType)
		}
		if tweet.Status != StatusPending {
			t.Errorf("tweet %d: status = %q", i, tweet.Status)
		}
	}
	if tweets[0].ID == tweets[1].ID {
		t.Error("tweet ids should be unique")
	}
}

func TestRunGenerateMissingAPIKey(t *testing.T) {
	cfg := newTestConfig(t)

	g := NewGenerator(cfg, nil)
	_, err := g.RunGenerate(context.Background(), "morning")
	if err == nil || !strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
		t.Fatalf("expected missing API key error, got %v", err)
	}
}

func TestRunGenerateMissingNewsFile(t *testing.T) {
	cfg := newTestConfig(t)
	writeTestFile(t, cfg.TemplatesDir+"/"+promptTemplateName, testTemplate)

	g := NewGenerator(cfg, &fakeCompleter{})
	_, err := g.RunGenerate(context.Background(), "morning")
	if err == nil || !strings.Contains(err.Error(), "ニュースファイルが見つかりません") {
		t.Fatalf("expected missing news file error, got %v", err)
	}
}

func TestRunGenerateMissingTemplate(t *testing.T) {
	cfg := newTestConfig(t)
	writeTestFile(t, cfg.NewsFilePath("morning", cfg.Today()), `[]`)

	g := NewGenerator(cfg, &fakeCompleter{})
	_, err := g.RunGenerate(context.Background(), "morning")
	if err == nil || !strings.Contains(err.Error(), "テンプレートが見つかりません") {
		t.Fatalf("expected missing template error, got %v", err)
	}
}

func TestRunGenerateUnextractableResponse(t *testing.T) {
	cfg := newTestConfig(t)
	setupGenerateFixtures(t, cfg)

	g := NewGenerator(cfg, &fakeCompleter{response: "すみません、ツイート案を作成できませんでした。"})
	_, err := g.RunGenerate(context.Background(), "morning")
	if err == nil {
		t.Fatal("unextractable response should fail")
	}
}
