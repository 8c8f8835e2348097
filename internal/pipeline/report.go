// =============================================================================
// report.go - 週次投稿分析レポート
// =============================================================================
//
// このファイルは posted/ のアーカイブを期間で絞り込み、
// Markdown形式の集計レポートを標準出力へ書き出します。
//
// 【集計内容】
//   - 合計ツイート数・処理ファイル数
//   - セッション別内訳（ファイル名のmorning/eveningから推定）
//   - カテゴリ分布（上位10件、割合と#バー付き）
//   - ソース上位5件
//
// パースできないファイルは標準エラーへの警告にとどめ、集計を続行する。
//
// =============================================================================
package pipeline

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Reporter は週次レポートの生成を担当する
type Reporter struct {
	cfg  *Config
	out  io.Writer // レポート本文の出力先
	errW io.Writer // 警告の出力先
}

// NewReporter はReporterを作成する
func NewReporter(cfg *Config, out, errW io.Writer) *Reporter {
	return &Reporter{cfg: cfg, out: out, errW: errW}
}

// RunWeeklyReport は [weekStart, weekEnd]（両端含む、文字列比較）の
// アーカイブを集計してレポートを出力する
func (r *Reporter) RunWeeklyReport(weekStart, weekEnd string) error {
	totalTweets := 0
	filesProcessed := 0
	categories := map[string]int{}
	sources := map[string]int{}
	sessions := map[string]int{}

	entries := listArchiveEntries(r.cfg.PostedDir)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	for _, entry := range entries {
		if entry.Date == "" || entry.Date < weekStart || entry.Date > weekEnd {
			continue
		}

		var tweets []Tweet
		if err := readJSONFile(entry.Path, &tweets); err != nil {
			fmt.Fprintf(r.errW, "Warning: Could not parse %s: %v\n", entry.Path, err)
			continue
		}

		filesProcessed++
		totalTweets += len(tweets)
		for _, tweet := range tweets {
			categories[orDefault(tweet.Category, "Uncategorized")]++
			sources[orDefault(tweet.SourceTitle, "Unknown")]++
		}
		if entry.Session != "" {
			sessions[entry.Session] += len(tweets)
		}
	}

	fmt.Fprintf(r.out, "# Weekly Analysis Report\n")
	fmt.Fprintf(r.out, "Period: %s - %s\n\n", weekStart, weekEnd)
	fmt.Fprintf(r.out, "## Summary\n")
	fmt.Fprintf(r.out, "- Total tweets posted: **%d**\n", totalTweets)
	fmt.Fprintf(r.out, "- Draft files processed: **%d**\n\n", filesProcessed)

	if len(sessions) > 0 {
		fmt.Fprintf(r.out, "## Session Breakdown\n")
		for _, c := range sortedCounts(sessions, 0) {
			fmt.Fprintf(r.out, "- %s: %d tweets\n", capitalize(c.key), c.count)
		}
		fmt.Fprintln(r.out)
	}

	if len(categories) > 0 {
		fmt.Fprintf(r.out, "## Category Distribution\n")
		for _, c := range sortedCounts(categories, 10) {
			pct := 0.0
			if totalTweets > 0 {
				pct = float64(c.count) / float64(totalTweets) * 100
			}
			bar := strings.Repeat("#", int(pct/5))
			fmt.Fprintf(r.out, "- %s: %d (%.0f%%) %s\n", c.key, c.count, pct, bar)
		}
		fmt.Fprintln(r.out)
	}

	if len(sources) > 0 {
		fmt.Fprintf(r.out, "## Top Sources\n")
		for _, c := range sortedCounts(sources, 5) {
			fmt.Fprintf(r.out, "- %s: %d\n", c.key, c.count)
		}
		fmt.Fprintln(r.out)
	}

	if totalTweets == 0 {
		fmt.Fprintf(r.out, "No tweets were posted this week.\n\n")
	}

	fmt.Fprintf(r.out, "---\n")
	fmt.Fprintf(r.out, "Note: Engagement metrics (likes, retweets, impressions) require\n")
	fmt.Fprintf(r.out, "X API Basic plan. Please check the X Analytics dashboard manually\n")
	fmt.Fprintf(r.out, "for detailed engagement data.\n")

	return nil
}

// keyCount は集計結果の1エントリ
type keyCount struct {
	key   string
	count int
}

// sortedCounts はカウントの降順（同数はキーの昇順）で上位limit件を返す
//
// limit=0 は全件。
func sortedCounts(counts map[string]int, limit int) []keyCount {
	out := make([]keyCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, keyCount{key: k, count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// capitalize は先頭文字を大文字にする（"morning" -> "Morning"）
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
