// =============================================================================
// dedup.go - 投稿済みURLとの重複排除
// =============================================================================
//
// このファイルは posted/ のアーカイブを走査し、過去に投稿済みのURLを
// 取得済み記事リストから除去します。
//
// 日付の判定はファイル名末尾の YYYY-MM-DD に基づく（ファイル内の
// タイムスタンプは見ない）。ベストエフォートの重複排除であり、
// ファイル名から日付が読めないファイルは対象外となる。
//
// =============================================================================
package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// archiveEntry はアーカイブファイル1件のファイル名を構造化したもの
//
// ディレクトリ走査時に一度だけパースし、以降はこの構造体で扱う。
type archiveEntry struct {
	Path    string // フルパス
	Kind    string // "posted" / "tweets" / "news" など先頭の種別
	Session string // "morning" / "evening"（ファイル名に含まれる場合）
	Date    string // 末尾の YYYY-MM-DD（なければ空）
}

// listArchiveEntries はディレクトリ内の *.json をarchiveEntryに変換して返す
//
// ファイル名の形式は <kind>[_<session>]_<date>.json を想定。
// 形式に合わない部分は空フィールドのまま返す（除外はしない）。
func listArchiveEntries(dir string) []archiveEntry {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil
	}

	entries := make([]archiveEntry, 0, len(paths))
	for _, p := range paths {
		entries = append(entries, parseArchiveName(p))
	}
	return entries
}

// parseArchiveName はファイル名を (kind, session, date) に分解する
func parseArchiveName(p string) archiveEntry {
	entry := archiveEntry{Path: p}

	base := strings.TrimSuffix(filepath.Base(p), ".json")
	parts := strings.Split(base, "_")
	if len(parts) > 0 {
		entry.Kind = parts[0]
	}

	// 末尾要素が日付（YYYY-MM-DD）かを判定
	last := parts[len(parts)-1]
	if len(last) == 10 {
		if _, err := time.Parse("2006-01-02", last); err == nil {
			entry.Date = last
		}
	}

	for _, part := range parts {
		if part == "morning" || part == "evening" {
			entry.Session = part
			break
		}
	}

	return entry
}

// inWindow はエントリの日付が now からwindowDays日以内かを返す
//
// ちょうどwindowDays日前は含む。日付のないエントリは対象外。
func (e archiveEntry) inWindow(now time.Time, windowDays int) bool {
	if e.Date == "" {
		return false
	}
	fileDate, err := time.ParseInLocation("2006-01-02", e.Date, now.Location())
	if err != nil {
		return false
	}
	cutoff, err := time.ParseInLocation("2006-01-02", now.Format("2006-01-02"), now.Location())
	if err != nil {
		return false
	}
	diff := cutoff.Sub(fileDate)
	return diff >= 0 && diff <= time.Duration(windowDays)*24*time.Hour
}

// loadPostedURLs は期間内のアーカイブから投稿済みURLの集合を集める
//
// source_url（ツイート案の元記事URL）と url（記事形式のファイル用）の
// 両方を拾う。パースできないファイルは警告を出して無視する。
func loadPostedURLs(postedDir string, now time.Time, windowDays int) map[string]bool {
	seen := map[string]bool{}

	for _, entry := range listArchiveEntries(postedDir) {
		if !entry.inWindow(now, windowDays) {
			continue
		}

		var items []struct {
			SourceURL string `json:"source_url"`
			URL       string `json:"url"`
		}
		if err := readJSONFile(entry.Path, &items); err != nil {
			warnf("アーカイブのパースに失敗: %s (%v)", entry.Path, err)
			continue
		}

		for _, item := range items {
			if item.SourceURL != "" {
				seen[item.SourceURL] = true
			}
			if item.URL != "" {
				seen[item.URL] = true
			}
		}
	}

	return seen
}

// filterSeenURLs は投稿済みURLに一致する記事を除去する
func filterSeenURLs(articles []Article, seen map[string]bool) []Article {
	if len(seen) == 0 {
		return articles
	}

	kept := make([]Article, 0, len(articles))
	for _, a := range articles {
		if seen[a.URL] {
			continue
		}
		kept = append(kept, a)
	}

	if removed := len(articles) - len(kept); removed > 0 {
		infof("重複排除: %d 件 -> %d 件 (%d 件除去)", len(articles), len(kept), removed)
	}
	return kept
}

// fileExists はファイルの存在を確認する
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
