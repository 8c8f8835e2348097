package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// testNow はテストで使う固定の現在時刻（JST）
var testNow = time.Date(2026, 8, 30, 9, 0, 0, 0, JST)

// newTestConfig は一時ディレクトリを使うConfigを作る
func newTestConfig(t *testing.T) *Config {
	t.Helper()

	baseDir := t.TempDir()
	cfg := LoadConfig(baseDir)
	cfg.Now = func() time.Time { return testNow }

	// 実行環境の環境変数に影響されないようにする
	cfg.AnthropicAPIKey = ""
	cfg.XAPIKey = ""
	cfg.XAPISecret = ""
	cfg.XAccessToken = ""
	cfg.XAccessSecret = ""
	cfg.SlackWebhookURL = ""
	cfg.DiscordWebhookURL = ""
	if err := cfg.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	return cfg
}

// writeTestFile はパスの親ディレクトリを作ってファイルを書く
func writeTestFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
