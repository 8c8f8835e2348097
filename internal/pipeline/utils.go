// =============================================================================
// utils.go - ユーティリティ関数
// =============================================================================
//
// このファイルはパイプライン全体で使用する汎用的なヘルパー関数を提供します。
//
// 【このファイルで提供する機能】
//   - JSON操作: ファイル読み書き（整形付き）
//   - ログ出力: 警告・情報メッセージの出力（stderr）
//   - 文字列操作: HTMLタグ除去、rune単位の切り詰め
//
// stdout はレポート出力やJSON出力のために空けておき、
// ログメッセージはすべて標準エラー出力に書く。
//
// =============================================================================
package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// -----------------------------------------------------------------------------
// JSON操作関数
// -----------------------------------------------------------------------------

// writeJSONFile は任意のデータを2スペースインデントのJSONとしてファイルに保存する
func writeJSONFile(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// readJSONFile はJSONファイルを読み込んで指定した型にデコードする
//
// outはポインタで渡す必要がある。
func readJSONFile(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// -----------------------------------------------------------------------------
// ログ出力関数
// -----------------------------------------------------------------------------

// infof は情報メッセージを標準エラー出力に書き出す
func infof(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "INFO: "+format+"\n", args...)
}

// warnf は警告メッセージを標準エラー出力に書き出す
func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "WARN: "+format+"\n", args...)
}

// errorf はエラーメッセージを標準エラー出力に書き出す
//
// ログ出力のみでプログラムは終了しない。
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
}

// -----------------------------------------------------------------------------
// 文字列操作関数
// -----------------------------------------------------------------------------

// cleanHTMLTags はHTML断片からタグを除去してプレーンテキストにする
//
// RSSのdescription/summaryはHTMLを含むことが多いため、
// goqueryでパースしてテキストのみを取り出し、空白を正規化する。
// パースできない場合は入力をそのまま返す。
func cleanHTMLTags(htmlStr string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return strings.TrimSpace(htmlStr)
	}
	doc.Find("script, style").Remove()
	text := doc.Text()
	return strings.TrimSpace(strings.Join(strings.Fields(text), " "))
}

// truncateRunes は文字列を最大maxLen文字（rune単位）に切り詰める
//
// 日本語などのマルチバイト文字も正しく処理する。
func truncateRunes(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
