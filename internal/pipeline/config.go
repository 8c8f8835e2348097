// =============================================================================
// config.go - 設定・環境変数・パス定義
// =============================================================================
//
// このファイルは設定管理を行います。
//
// 【設定の構成】
//   - Config:      環境変数と定数から組み立てる実行時設定
//                  （プロセス開始時に一度だけ構築し、各コンポーネントへ渡す）
//   - SourceCatalog: sources.yml から読み込む宣言的なソース定義
//
// 【必要な環境変数】
//   ANTHROPIC_API_KEY - Claude APIキー（generateステージで必須）
//   CLAUDE_MODEL      - 使用モデル（省略時はデフォルト）
//   X_API_KEY / X_API_SECRET / X_ACCESS_TOKEN / X_ACCESS_SECRET
//                     - X API認証情報（postステージで必須）
//   SLACK_WEBHOOK_URL / DISCORD_WEBHOOK_URL
//                     - 通知先Webhook（未設定の場合は通知をスキップ）
//
// =============================================================================
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// デフォルト定数
const (
	DefaultClaudeModel      = "claude-sonnet-4-5-20250929"
	DefaultTweetsPerSession = 5
	DefaultIntervalMinutes  = 5
	DedupDays               = 30 // 重複排除の対象期間（日数）

	maxSummaryRunes   = 300 // Article.Summaryの最大文字数
	maxResponseTokens = 2048
)

// JST は日本標準時（UTC+9）
var JST = time.FixedZone("JST", 9*60*60)

// Config は実行時設定を保持する
//
// 環境変数はここで一度だけ読み取り、以降は値として各コンポーネントに渡す。
type Config struct {
	// ディレクトリ・ファイルパス
	BaseDir      string
	DraftsDir    string
	PostedDir    string
	TemplatesDir string
	SourcesPath  string

	// Claude API
	AnthropicAPIKey string
	ClaudeModel     string

	// X API（4つ揃わないと投稿不可）
	XAPIKey       string
	XAPISecret    string
	XAccessToken  string
	XAccessSecret string

	// 通知Webhook（未設定は許容）
	SlackWebhookURL   string
	DiscordWebhookURL string

	// 投稿設定
	TweetsPerSession int
	PostingInterval  time.Duration

	// Now は現在時刻を返す（テストで差し替え可能）
	Now func() time.Time
}

// LoadConfig は環境変数からConfigを構築する
//
// baseDirの下に drafts/ posted/ templates/ sources.yml を配置する前提。
func LoadConfig(baseDir string) *Config {
	model := os.Getenv("CLAUDE_MODEL")
	if model == "" {
		model = DefaultClaudeModel
	}

	return &Config{
		BaseDir:      baseDir,
		DraftsDir:    filepath.Join(baseDir, "drafts"),
		PostedDir:    filepath.Join(baseDir, "posted"),
		TemplatesDir: filepath.Join(baseDir, "templates"),
		SourcesPath:  filepath.Join(baseDir, "sources.yml"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		ClaudeModel:     model,

		XAPIKey:       os.Getenv("X_API_KEY"),
		XAPISecret:    os.Getenv("X_API_SECRET"),
		XAccessToken:  os.Getenv("X_ACCESS_TOKEN"),
		XAccessSecret: os.Getenv("X_ACCESS_SECRET"),

		SlackWebhookURL:   os.Getenv("SLACK_WEBHOOK_URL"),
		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),

		TweetsPerSession: DefaultTweetsPerSession,
		PostingInterval:  DefaultIntervalMinutes * time.Minute,

		Now: func() time.Time { return time.Now().In(JST) },
	}
}

// EnsureDirs は必要なディレクトリが存在しない場合は作成する
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.DraftsDir, c.PostedDir, c.TemplatesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Today は今日の日付（JST）を YYYY-MM-DD 形式で返す
func (c *Config) Today() string {
	return c.Now().Format("2006-01-02")
}

// NewsFilePath は取得済みニュースの保存先パスを返す
func (c *Config) NewsFilePath(sessionType, date string) string {
	return filepath.Join(c.DraftsDir, fmt.Sprintf("news_%s_%s.json", sessionType, date))
}

// TweetsFilePath はツイート案の保存先パスを返す
func (c *Config) TweetsFilePath(sessionType, date string) string {
	return filepath.Join(c.DraftsDir, fmt.Sprintf("tweets_%s_%s.json", sessionType, date))
}

// PostedFilePath は投稿済みアーカイブの保存先パスを返す
func (c *Config) PostedFilePath(date string) string {
	return filepath.Join(c.PostedDir, fmt.Sprintf("posted_%s.json", date))
}

// ValidateSessionType はセッション種別を検証する
func ValidateSessionType(sessionType string) error {
	if sessionType != "morning" && sessionType != "evening" {
		return fmt.Errorf("session type must be 'morning' or 'evening': %q", sessionType)
	}
	return nil
}

// =============================================================================
// ソースカタログ（sources.yml）
// =============================================================================

// SourceCatalog は sources.yml 全体を表す
type SourceCatalog struct {
	Sources []SourceConfig `yaml:"sources"` // ソース定義リスト
	Posting PostingConfig  `yaml:"posting"` // 投稿スケジュール設定
}

// SourceConfig はニュースソース1件の宣言的定義
type SourceConfig struct {
	Name       string   `yaml:"name"`       // 表示名（Article.Sourceに入る）
	Type       string   `yaml:"type"`       // "rss" または "api"
	URL        string   `yaml:"url"`        // フィードURLまたはAPIエンドポイント
	MaxItems   int      `yaml:"max_items"`  // 取得上限（省略時は5）
	Categories []string `yaml:"categories"` // カテゴリタグ（先頭が記事に付く）
}

// PostingConfig は投稿スケジュールの設定
type PostingConfig struct {
	TweetsPerSession int `yaml:"tweets_per_session"` // 1セッションあたりの生成数
	IntervalMinutes  int `yaml:"interval_minutes"`   // 投稿間隔（分）
}

// LoadSourceCatalog は sources.yml を読み込む
//
// ファイルが存在しない場合はエラー（起動時に即失敗させる）。
func LoadSourceCatalog(path string) (*SourceCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("source catalog not found: %s", path)
		}
		return nil, fmt.Errorf("read source catalog %s: %w", path, err)
	}

	var catalog SourceCatalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse source catalog %s: %w", path, err)
	}
	return &catalog, nil
}

// ApplyCatalog はカタログの投稿設定をConfigに反映する
func (c *Config) ApplyCatalog(catalog *SourceCatalog) {
	if catalog.Posting.TweetsPerSession > 0 {
		c.TweetsPerSession = catalog.Posting.TweetsPerSession
	}
	if catalog.Posting.IntervalMinutes > 0 {
		c.PostingInterval = time.Duration(catalog.Posting.IntervalMinutes) * time.Minute
	}
}

// MaxItemsOrDefault は取得上限を返す（未指定は5）
func (s *SourceConfig) MaxItemsOrDefault() int {
	if s.MaxItems > 0 {
		return s.MaxItems
	}
	return 5
}

// PrimaryCategory は先頭のカテゴリタグを返す（未指定は"General"）
func (s *SourceConfig) PrimaryCategory() string {
	if len(s.Categories) > 0 {
		return s.Categories[0]
	}
	return "General"
}
