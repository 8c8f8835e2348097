package pipeline

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatPRBodyArrayForm(t *testing.T) {
	cfg := newTestConfig(t)
	path := cfg.TweetsFilePath("morning", cfg.Today())
	writeTestFile(t, path, `[
  {"id": "1", "tweet_text": "Goの新リリース", "source_title": "Go Blog", "category": "Tech", "status": "pending"},
  {"id": "2", "tweet_text": "ソースなし", "status": "pending"}
]`)

	var out bytes.Buffer
	if err := FormatPRBody(path, &out); err != nil {
		t.Fatalf("FormatPRBody: %v", err)
	}

	body := out.String()
	for _, want := range []string{
		"### Tweet 1 [Tech]",
		"> Goの新リリース",
		"Source: Go Blog",
		"### Tweet 2 [General]",
		"> ソースなし",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body should contain %q:\n%s", want, body)
		}
	}

	// source_titleのないツイートにはSource行を出さない
	second := body[strings.Index(body, "### Tweet 2"):]
	if strings.Contains(second, "Source:") {
		t.Errorf("no Source line expected for tweet 2:\n%s", second)
	}
}

func TestFormatPRBodyWrapperForm(t *testing.T) {
	cfg := newTestConfig(t)
	path := cfg.TweetsFilePath("morning", cfg.Today())
	writeTestFile(t, path, `{"tweets": [{"id": "1", "tweet_text": "ラッパー形式", "status": "pending"}]}`)

	var out bytes.Buffer
	if err := FormatPRBody(path, &out); err != nil {
		t.Fatalf("FormatPRBody: %v", err)
	}
	if !strings.Contains(out.String(), "> ラッパー形式") {
		t.Errorf("wrapper form should be accepted:\n%s", out.String())
	}
}

func TestFormatPRBodyMissingFile(t *testing.T) {
	var out bytes.Buffer
	if err := FormatPRBody("/nonexistent/tweets.json", &out); err == nil {
		t.Fatal("missing draft file should fail")
	}
}
