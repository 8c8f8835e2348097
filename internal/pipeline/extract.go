// =============================================================================
// extract.go - Claudeレスポンスからのツイート配列抽出
// =============================================================================
//
// Claudeの応答は自由テキストで、JSON配列がコードブロックに包まれていたり、
// 前後に説明文が付いていたり、JSON自体が壊れていたりする。
// このファイルはそのテキストからツイート案の配列を取り出します。
//
// 【抽出の流れ】
//   1. フェンス付きコードブロックの中身をすべて候補として集める
//   2. なければ [ { ... } ] パターンの最初の部分文字列、それもなければ全文
//   3. 各候補をそのままパース -> 失敗したら修復（RepairJSON）してパース
//   4. 最初に配列としてパースできた候補を採用
//   5. どれも失敗したら、生レスポンスの先頭500文字を含むエラーを返す
//
// RepairJSONは独立したpure functionとして切り出してある
// （文字列in/文字列out、単体でテスト可能）。
//
// =============================================================================
package pipeline

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ```json ... ``` 形式のコードブロック（言語指定は任意）
	reFencedBlock = regexp.MustCompile("(?s)```(?:[a-zA-Z]*)\\s*\n?(.*?)\n?```")

	// オブジェクトの配列らしき部分文字列 [ { ... } ]
	reObjectArray = regexp.MustCompile(`(?s)\[\s*\{.*\}\s*\]`)
)

// ExtractTweetArray は自由テキストからツイート配列を抽出する
func ExtractTweetArray(text string) ([]Tweet, error) {
	for _, candidate := range extractCandidates(text) {
		if tweets, ok := tryParseTweetList(candidate); ok {
			return tweets, nil
		}
		if tweets, ok := tryParseTweetList(RepairJSON(candidate)); ok {
			return tweets, nil
		}
	}

	return nil, fmt.Errorf("レスポンスからJSON配列を抽出できませんでした: %s", truncateRunes(text, 500))
}

// extractCandidates はパースを試す候補文字列を優先順に返す
func extractCandidates(text string) []string {
	var candidates []string
	for _, m := range reFencedBlock.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if len(candidates) > 0 {
		return candidates
	}

	if m := reObjectArray.FindString(text); m != "" {
		return []string{m}
	}
	return []string{strings.TrimSpace(text)}
}

// tryParseTweetList は候補をJSON配列としてパースする
//
// 配列以外（オブジェクト、null等）は不採用とする。
func tryParseTweetList(candidate string) ([]Tweet, bool) {
	if !strings.HasPrefix(strings.TrimSpace(candidate), "[") {
		return nil, false
	}
	var tweets []Tweet
	if err := json.Unmarshal([]byte(candidate), &tweets); err != nil {
		return nil, false
	}
	return tweets, true
}

// RepairJSON は壊れがちなJSONテキストを修復する
//
// 言語モデルの出力でよく起きる2種類の破損のみを対象とする:
//   - 文字列リテラル内の生の改行・タブ（エスケープされていない制御文字）
//   - 閉じ括弧 ] } の直前の余分なカンマ
//
// 左から右への1回の走査で文字列内/エスケープ中の状態を追跡する。
// すでに正しいJSONはそのまま返る。
func RepairJSON(s string) string {
	escaped := escapeRawControls(s)
	return stripTrailingCommas(escaped)
}

// escapeRawControls は文字列リテラル内の生の改行・タブをエスケープする
func escapeRawControls(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escape := false

	for _, r := range s {
		if escape {
			// 直前がバックスラッシュ: この文字はそのまま通す
			b.WriteRune(r)
			escape = false
			continue
		}

		switch {
		case inString && r == '\\':
			b.WriteRune(r)
			escape = true
		case inString && r == '\n':
			b.WriteString(`\n`)
		case inString && r == '\t':
			b.WriteString(`\t`)
		case inString && r == '\r':
			b.WriteString(`\r`)
		case r == '"':
			inString = !inString
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// stripTrailingCommas は閉じ括弧直前の余分なカンマを除去する
//
// 文字列リテラル内のカンマには触れない。
func stripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	inString := false
	escape := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if inString {
			b.WriteRune(r)
			if escape {
				escape = false
			} else if r == '\\' {
				escape = true
			} else if r == '"' {
				inString = false
			}
			continue
		}

		if r == '"' {
			inString = true
			b.WriteRune(r)
			continue
		}

		if r == ',' {
			// 空白を読み飛ばした次の文字が ] か } ならカンマを捨てる
			j := i + 1
			for j < len(runes) && isJSONSpace(runes[j]) {
				j++
			}
			if j < len(runes) && (runes[j] == ']' || runes[j] == '}') {
				continue
			}
		}

		b.WriteRune(r)
	}

	return b.String()
}

func isJSONSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
