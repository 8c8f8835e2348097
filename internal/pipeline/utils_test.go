package pipeline

import (
	"testing"
)

func TestCleanHTMLTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello world", "hello world"},
		{"simple tags", "<p>Hello <b>world</b></p>", "Hello world"},
		{"script removed", "<p>keep</p><script>alert(1)</script>", "keep"},
		{"style removed", "<style>p{color:red}</style><p>visible</p>", "visible"},
		{"whitespace normalized", "<div>  a\n\n  b  </div>", "a b"},
		{"japanese", "<p>日本語の<em>概要</em>です</p>", "日本語の概要です"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		if got := cleanHTMLTags(tt.in); got != tt.want {
			t.Errorf("%s: cleanHTMLTags(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	if got := truncateRunes("hello", 10); got != "hello" {
		t.Errorf("short string should be untouched, got %q", got)
	}
	if got := truncateRunes("hello", 3); got != "hel" {
		t.Errorf("truncateRunes = %q, want hel", got)
	}
	// マルチバイト文字はrune単位で数える
	if got := truncateRunes("日本語のテキスト", 3); got != "日本語" {
		t.Errorf("truncateRunes = %q, want 日本語", got)
	}
}

func TestTweetStatusTransitions(t *testing.T) {
	t.Parallel()

	tweet := Tweet{ID: "t1", TweetText: "text", Status: StatusPending}
	if err := tweet.MarkPosted("12345", "2026-08-30T09:00:00+09:00"); err != nil {
		t.Fatalf("MarkPosted from pending: %v", err)
	}
	if tweet.Status != StatusPosted || tweet.TweetID != "12345" || tweet.PostedAt == "" {
		t.Errorf("unexpected tweet after MarkPosted: %+v", tweet)
	}

	// posted からの再遷移は拒否
	if err := tweet.MarkPosted("99999", "later"); err == nil {
		t.Error("MarkPosted from posted should fail")
	}
	if err := tweet.MarkFailed("boom"); err == nil {
		t.Error("MarkFailed from posted should fail")
	}

	failed := Tweet{ID: "t2", TweetText: "text", Status: StatusPending}
	if err := failed.MarkFailed("rate limited"); err != nil {
		t.Fatalf("MarkFailed from pending: %v", err)
	}
	if failed.Status != StatusFailed || failed.Error != "rate limited" {
		t.Errorf("unexpected tweet after MarkFailed: %+v", failed)
	}

	// skip はPublisherの操作対象外
	skip := Tweet{ID: "t3", Status: StatusSkip}
	if err := skip.MarkPosted("1", "now"); err == nil {
		t.Error("MarkPosted from skip should fail")
	}
}

func TestReadWriteJSONFile(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	path := cfg.NewsFilePath("morning", cfg.Today())

	in := []Article{{Title: "記事", URL: "https://example.com/a", Source: "Test"}}
	if err := writeJSONFile(path, in); err != nil {
		t.Fatalf("writeJSONFile: %v", err)
	}

	var out []Article
	if err := readJSONFile(path, &out); err != nil {
		t.Fatalf("readJSONFile: %v", err)
	}
	if len(out) != 1 || out[0].Title != "記事" || out[0].URL != "https://example.com/a" {
		t.Errorf("round trip mismatch: %+v", out)
	}
}
