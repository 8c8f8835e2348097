// =============================================================================
// prbody.go - レビューPR本文のフォーマット
// =============================================================================
//
// ツイート案ファイルをレビュー用PRのbodyに貼れるMarkdownへ変換する。
// 入力は配列形式と {"tweets": [...]} のラッパー形式の両方を受け付ける。
//
// =============================================================================
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// FormatPRBody はドラフトファイルをPR body用のMarkdownとして書き出す
func FormatPRBody(draftFile string, out io.Writer) error {
	raw, err := os.ReadFile(draftFile)
	if err != nil {
		return fmt.Errorf("read draft file: %w", err)
	}

	tweets, err := decodeTweetDocument(raw)
	if err != nil {
		return fmt.Errorf("parse draft file %s: %w", draftFile, err)
	}

	for i, tweet := range tweets {
		category := orDefault(tweet.Category, "General")
		fmt.Fprintf(out, "### Tweet %d [%s]\n", i+1, category)
		fmt.Fprintf(out, "> %s\n", tweet.TweetText)
		if tweet.SourceTitle != "" {
			fmt.Fprintf(out, "\nSource: %s\n", tweet.SourceTitle)
		}
		fmt.Fprintln(out)
	}
	return nil
}

// decodeTweetDocument は配列形式・ラッパー形式の両方をデコードする
func decodeTweetDocument(raw []byte) ([]Tweet, error) {
	var tweets []Tweet
	if err := json.Unmarshal(raw, &tweets); err == nil {
		return tweets, nil
	}

	var wrapper struct {
		Tweets []Tweet `json:"tweets"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Tweets, nil
}
