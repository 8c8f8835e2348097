// =============================================================================
// fetch.go - ニュース記事の取得
// =============================================================================
//
// このファイルはソースカタログ（sources.yml）に定義された各ソースから
// 記事を取得し、共通のArticle形式に正規化します。
//
// 【対応しているソースタイプ】
//   - rss: RSS/Atomフィード（gofeedでパース）
//   - api: Hacker News API（topstories + item個別取得）
//
// 【エラー処理の方針】
//   単一ソースの失敗（ネットワークエラー、パース失敗）はログに残して
//   そのソースを0件として扱い、残りのソースの取得は続行する。
//   1つの不調なフィードが実行全体を止めてはならない。
//
// =============================================================================
package pipeline

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const defaultUserAgent = "news-bot/1.0"

// Fetcher はソースカタログから記事を収集する
type Fetcher struct {
	cfg    *Config
	client *http.Client
}

// NewFetcher はFetcherを作成する
func NewFetcher(cfg *Config) *Fetcher {
	return &Fetcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// RunFetch はfetchステージ全体を実行する
//
// 全ソースから記事を取得し、投稿済み履歴（posted/）に対して重複排除した上で
// drafts/news_<session>_<date>.json に保存する。保存先パスを返す。
func (f *Fetcher) RunFetch(sessionType string) (string, error) {
	if err := ValidateSessionType(sessionType); err != nil {
		return "", err
	}
	if err := f.cfg.EnsureDirs(); err != nil {
		return "", err
	}

	catalog, err := LoadSourceCatalog(f.cfg.SourcesPath)
	if err != nil {
		return "", err
	}

	articles := f.FetchAll(catalog.Sources)

	// 過去30日の投稿済みURLと照合して重複を除去
	seen := loadPostedURLs(f.cfg.PostedDir, f.cfg.Now(), DedupDays)
	articles = filterSeenURLs(articles, seen)

	outPath := f.cfg.NewsFilePath(sessionType, f.cfg.Today())
	if err := writeJSONFile(outPath, articles); err != nil {
		return "", fmt.Errorf("write news file: %w", err)
	}

	infof("合計 %d 件を保存: %s", len(articles), outPath)
	return outPath, nil
}

// FetchAll は宣言順に全ソースから記事を取得して連結する
func (f *Fetcher) FetchAll(sources []SourceConfig) []Article {
	var all []Article

	for _, source := range sources {
		infof("取得中: %s (type=%s)", source.Name, source.Type)

		var articles []Article
		switch {
		case source.Type == "api" && strings.Contains(source.URL, "hacker-news"):
			articles = f.fetchHackerNews(source)
		case source.Type == "rss":
			articles = f.fetchRSS(source)
		default:
			warnf("未対応のソースタイプ: %s (%s)", source.Type, source.Name)
			continue
		}

		infof("  -> %d 件取得", len(articles))
		all = append(all, articles...)
	}

	return all
}

// -----------------------------------------------------------------------------
// RSS
// -----------------------------------------------------------------------------

// fetchRSS はRSS/Atomフィードから記事を取得する
//
// 概要はsummary（gofeedではDescription）を優先し、なければContentを使う。
// HTMLタグを除去した上で300文字に切り詰める。
func (f *Fetcher) fetchRSS(source SourceConfig) []Article {
	var articles []Article

	feed, err := f.fetchFeed(source.URL)
	if err != nil {
		errorf("%s の RSS 取得に失敗: %v", source.Name, err)
		return articles
	}
	if len(feed.Items) == 0 {
		warnf("%s: フィードに記事がありません", source.Name)
		return articles
	}

	category := source.PrimaryCategory()
	fetchedAt := f.cfg.Now().Format(time.RFC3339)

	for _, item := range feed.Items {
		if len(articles) >= source.MaxItemsOrDefault() {
			break
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		summary = truncateRunes(cleanHTMLTags(summary), maxSummaryRunes)

		articles = append(articles, Article{
			Title:     item.Title,
			URL:       item.Link,
			Summary:   summary,
			Source:    source.Name,
			Category:  category,
			FetchedAt: fetchedAt,
		})
	}

	return articles
}

// fetchFeed は指定URLからフィードを取得してgofeedでパースする
func (f *Fetcher) fetchFeed(feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequest(http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feed parse failed: %w", err)
	}
	return feed, nil
}

// -----------------------------------------------------------------------------
// Hacker News API
// -----------------------------------------------------------------------------

// fetchHackerNews はHacker News APIから上位記事を取得する
//
// ソースのURLをtopstoriesエンドポイントとして扱い、個別記事は
// 同じディレクトリの item/<id>.json から取得する。
// 削除済み記事（nullレスポンス）はエラーにせずスキップする。
func (f *Fetcher) fetchHackerNews(source SourceConfig) []Article {
	var articles []Article

	var storyIDs []int64
	if err := f.getJSON(source.URL, &storyIDs); err != nil {
		errorf("Hacker News top stories の取得に失敗: %v", err)
		return articles
	}

	if limit := source.MaxItemsOrDefault(); len(storyIDs) > limit {
		storyIDs = storyIDs[:limit]
	}

	itemBase := hnItemBase(source.URL)
	category := source.PrimaryCategory()
	fetchedAt := f.cfg.Now().Format(time.RFC3339)

	for _, id := range storyIDs {
		var item *hnItem
		if err := f.getJSON(fmt.Sprintf("%s/item/%d.json", itemBase, id), &item); err != nil {
			warnf("HN item %d の取得に失敗: %v", id, err)
			continue
		}
		if item == nil {
			// 削除済み・欠番の記事
			continue
		}

		storyURL := item.URL
		if storyURL == "" {
			storyURL = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", id)
		}

		articles = append(articles, Article{
			Title:     item.Title,
			URL:       storyURL,
			Summary:   "",
			Source:    source.Name,
			Category:  category,
			FetchedAt: fetchedAt,
		})
	}

	return articles
}

// hnItem はHacker News item APIのレスポンス
type hnItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// hnItemBase はtopstoriesエンドポイントのURLからitem APIのベースURLを導出する
//
// 例: https://hacker-news.firebaseio.com/v0/topstories.json
//  -> https://hacker-news.firebaseio.com/v0
func hnItemBase(topStoriesURL string) string {
	u, err := url.Parse(topStoriesURL)
	if err != nil {
		return topStoriesURL
	}
	u.Path = path.Dir(u.Path)
	u.RawQuery = ""
	return strings.TrimSuffix(u.String(), "/")
}

// getJSON はHTTP GETを実行してJSONレスポンスをデコードする
func (f *Fetcher) getJSON(rawURL string, out any) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
