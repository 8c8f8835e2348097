// =============================================================================
// types.go - データ構造定義
// =============================================================================
//
// このファイルはnews-bot全体で使用するデータ構造（型）を定義します。
//
// 【このファイルで定義している型】
//   - Article:     ニュースソースから取得した記事1件
//   - Tweet:       生成されたツイート案1件（レビュー・投稿の対象）
//   - TweetStatus: ツイートのステータス（pending / skip / posted / failed）
//
// JSONのキー名はファイルフォーマット互換のため固定
// （drafts/news_*.json, drafts/tweets_*.json, posted/posted_*.json）。
//
// =============================================================================
package pipeline

import "fmt"

// Article はニュースソースから取得した記事1件を表す
//
// Fetcherが生成し、Draft Generatorだけが読む。書き込み後は不変。
// URLが実質的なID（重複排除のキー）となる。
type Article struct {
	Title     string `json:"title"`      // 記事タイトル
	URL       string `json:"url"`        // 記事URL（重複排除キー）
	Summary   string `json:"summary"`    // 概要（最大300文字に切り詰め済み）
	Source    string `json:"source"`     // ソース名（例: "Hacker News"）
	Category  string `json:"category"`   // カテゴリ（ソース定義の先頭カテゴリ）
	FetchedAt string `json:"fetched_at"` // 取得日時（RFC3339 / JST）
}

// TweetStatus はツイート案のステータス
//
// 有効な遷移は pending -> posted / pending -> failed のみ。
// skip はレビュー担当者が設定し、Publisherは触らない。
type TweetStatus string

const (
	StatusPending TweetStatus = "pending" // 未投稿（投稿対象）
	StatusSkip    TweetStatus = "skip"    // レビューで却下（投稿しない）
	StatusPosted  TweetStatus = "posted"  // 投稿成功
	StatusFailed  TweetStatus = "failed"  // 投稿失敗
)

// Tweet は生成されたツイート案1件を表す
//
// Draft Generatorが生成し、人間のレビュー（status書き換え）を経て
// Publisherがフィールド単位で更新する。削除はされず、posted/にアーカイブされる。
type Tweet struct {
	ID          string      `json:"id"`                     // 一意ID（生成時に付与）
	TweetText   string      `json:"tweet_text"`             // 投稿本文
	SourceTitle string      `json:"source_title,omitempty"` // 元記事タイトル
	SourceURL   string      `json:"source_url,omitempty"`   // 元記事URL
	Category    string      `json:"category,omitempty"`     // カテゴリ
	Status      TweetStatus `json:"status"`                 // ステータス
	GeneratedAt string      `json:"generated_at,omitempty"` // 生成日時（RFC3339 / JST）
	SessionType string      `json:"session_type,omitempty"` // セッション種別（morning / evening）

	// Publisherが設定するフィールド
	TweetID  string `json:"tweet_id,omitempty"`  // X側のツイートID（status=postedの場合のみ）
	PostedAt string `json:"posted_at,omitempty"` // 投稿日時（status=postedの場合のみ）
	Error    string `json:"error,omitempty"`     // エラー内容（status=failedの場合のみ）
}

// MarkPosted は投稿成功を記録する（pending -> posted）
func (t *Tweet) MarkPosted(tweetID, postedAt string) error {
	if t.Status != StatusPending {
		return fmt.Errorf("invalid status transition: %s -> posted", t.Status)
	}
	t.Status = StatusPosted
	t.TweetID = tweetID
	t.PostedAt = postedAt
	return nil
}

// MarkFailed は投稿失敗を記録する（pending -> failed）
func (t *Tweet) MarkFailed(errText string) error {
	if t.Status != StatusPending {
		return fmt.Errorf("invalid status transition: %s -> failed", t.Status)
	}
	t.Status = StatusFailed
	t.Error = errText
	return nil
}
