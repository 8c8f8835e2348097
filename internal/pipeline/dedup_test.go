package pipeline

import (
	"path/filepath"
	"testing"
)

func TestParseArchiveName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path        string
		wantKind    string
		wantSession string
		wantDate    string
	}{
		{"posted/posted_2026-08-25.json", "posted", "", "2026-08-25"},
		{"drafts/tweets_morning_2026-08-25.json", "tweets", "morning", "2026-08-25"},
		{"drafts/news_evening_2026-08-01.json", "news", "evening", "2026-08-01"},
		{"posted/notes.json", "notes", "", ""},
		{"posted/posted_not-a-date.json", "posted", "", ""},
	}

	for _, tt := range tests {
		entry := parseArchiveName(tt.path)
		if entry.Kind != tt.wantKind {
			t.Errorf("%s: kind = %q, want %q", tt.path, entry.Kind, tt.wantKind)
		}
		if entry.Session != tt.wantSession {
			t.Errorf("%s: session = %q, want %q", tt.path, entry.Session, tt.wantSession)
		}
		if entry.Date != tt.wantDate {
			t.Errorf("%s: date = %q, want %q", tt.path, entry.Date, tt.wantDate)
		}
	}
}

func TestDedupWindowBoundary(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)

	// ちょうど30日前: 対象に含まれる
	onBoundary := testNow.AddDate(0, 0, -DedupDays).Format("2006-01-02")
	writeTestFile(t, cfg.PostedFilePath(onBoundary),
		`[{"tweet_text": "old", "source_url": "https://example.com/boundary"}]`)

	// 31日前: 対象外
	outside := testNow.AddDate(0, 0, -(DedupDays + 1)).Format("2006-01-02")
	writeTestFile(t, cfg.PostedFilePath(outside),
		`[{"tweet_text": "older", "source_url": "https://example.com/outside"}]`)

	seen := loadPostedURLs(cfg.PostedDir, cfg.Now(), DedupDays)

	if !seen["https://example.com/boundary"] {
		t.Error("URL from archive exactly 30 days back should be in the dedup set")
	}
	if seen["https://example.com/outside"] {
		t.Error("URL from archive 31 days back should not be in the dedup set")
	}
}

func TestFilterSeenURLs(t *testing.T) {
	t.Parallel()

	articles := []Article{
		{Title: "seen", URL: "https://example.com/a"},
		{Title: "fresh", URL: "https://example.com/b"},
	}
	seen := map[string]bool{"https://example.com/a": true}

	got := filterSeenURLs(articles, seen)
	if len(got) != 1 {
		t.Fatalf("expected 1 article, got %d", len(got))
	}
	if got[0].URL != "https://example.com/b" {
		t.Errorf("wrong article kept: %q", got[0].URL)
	}
}

func TestLoadPostedURLsSkipsUnparseableFile(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	date := testNow.Format("2006-01-02")

	writeTestFile(t, cfg.PostedFilePath(date), `this is not json`)
	writeTestFile(t, filepath.Join(cfg.PostedDir, "posted_morning_"+date+".json"),
		`[{"source_url": "https://example.com/good"}]`)

	seen := loadPostedURLs(cfg.PostedDir, cfg.Now(), DedupDays)

	if !seen["https://example.com/good"] {
		t.Error("parseable archive should still contribute to the dedup set")
	}
	if len(seen) != 1 {
		t.Errorf("expected exactly 1 URL in dedup set, got %d", len(seen))
	}
}

func TestLoadPostedURLsCollectsArticleURLs(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	date := testNow.Format("2006-01-02")

	// source_url（ツイート形式）と url（記事形式）の両方を拾う
	writeTestFile(t, cfg.PostedFilePath(date),
		`[{"source_url": "https://example.com/tweet"}, {"url": "https://example.com/article"}]`)

	seen := loadPostedURLs(cfg.PostedDir, cfg.Now(), DedupDays)

	if !seen["https://example.com/tweet"] || !seen["https://example.com/article"] {
		t.Errorf("both source_url and url should be collected, got %v", seen)
	}
}
