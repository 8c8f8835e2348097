// =============================================================================
// notify.go - Slack / Discord Webhook通知
// =============================================================================
//
// このファイルはドラフト作成・投稿完了の通知メッセージを組み立て、
// Slack / Discord のIncoming Webhookへ送信します。
//
// 【配信の方針】
//   各Webhookは独立して扱う。URL未設定は意図的なスキップ（エラーではない）。
//   送信失敗はログに残すだけで、もう一方への送信は続行する。
//
// =============================================================================
package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Notifier は通知メッセージの組み立てと配信を担当する
type Notifier struct {
	cfg    *Config
	client *http.Client
}

// NewNotifier はNotifierを作成する
func NewNotifier(cfg *Config) *Notifier {
	return &Notifier{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RunNotify はnotifyステージ全体を実行する
//
// notifyTypeは "draft" または "posted"。draftの場合はsessionTypeが必須。
func (n *Notifier) RunNotify(notifyType, sessionType, prURL string) error {
	if err := n.cfg.EnsureDirs(); err != nil {
		return err
	}

	var message string
	switch notifyType {
	case "draft":
		if sessionType == "" {
			return fmt.Errorf("draft 通知には session_type が必要です")
		}
		message = n.BuildDraftMessage(sessionType, prURL)
	case "posted":
		message = n.BuildPostedMessage()
	default:
		return fmt.Errorf("未対応の通知タイプ: %s", notifyType)
	}

	infof("通知メッセージ:\n%s", message)

	n.sendSlack(message)
	n.sendDiscord(message)
	return nil
}

// BuildDraftMessage はドラフト通知用のメッセージを生成する
func (n *Notifier) BuildDraftMessage(sessionType, prURL string) string {
	today := n.cfg.Today()
	tweetsPath := n.cfg.TweetsFilePath(sessionType, today)

	lines := []string{
		fmt.Sprintf("*[Draft] %s ツイート案が作成されました*", sessionType),
		fmt.Sprintf("日付: %s", today),
	}

	var tweets []Tweet
	if err := readJSONFile(tweetsPath, &tweets); err != nil {
		lines = append(lines, "(ツイートファイルが見つかりませんでした)")
	} else {
		lines = append(lines, fmt.Sprintf("件数: %d 件", len(tweets)), "")
		for i, tweet := range tweets {
			lines = append(lines, fmt.Sprintf("%d. %s...", i+1, truncateRunes(tweet.TweetText, 80)))
		}
	}

	if prURL != "" {
		lines = append(lines, "", fmt.Sprintf("PR: %s", prURL))
	}

	lines = append(lines, "", "PR をレビュー・マージして投稿を承認してください。")
	return strings.Join(lines, "\n")
}

// BuildPostedMessage は投稿完了通知用のメッセージを生成する
//
// 件数は status=posted のものだけを数える（skip / failed は除外）。
func (n *Notifier) BuildPostedMessage() string {
	today := n.cfg.Today()
	postedPath := n.cfg.PostedFilePath(today)

	lines := []string{
		"*[Posted] ツイートを投稿しました*",
		fmt.Sprintf("日付: %s", today),
	}

	var tweets []Tweet
	if err := readJSONFile(postedPath, &tweets); err != nil {
		lines = append(lines, "(投稿済みファイルが見つかりませんでした)")
		return strings.Join(lines, "\n")
	}

	var posted []Tweet
	for _, tweet := range tweets {
		if tweet.Status == StatusPosted {
			posted = append(posted, tweet)
		}
	}

	lines = append(lines, fmt.Sprintf("投稿数: %d 件", len(posted)), "")
	for i, tweet := range posted {
		tweetURL := ""
		if tweet.TweetID != "" {
			tweetURL = fmt.Sprintf(" (https://x.com/i/status/%s)", tweet.TweetID)
		}
		lines = append(lines, fmt.Sprintf("%d. %s...%s", i+1, truncateRunes(tweet.TweetText, 80), tweetURL))
	}

	return strings.Join(lines, "\n")
}

// sendSlack はSlack Incoming Webhookへメッセージを送信する
func (n *Notifier) sendSlack(message string) {
	if n.cfg.SlackWebhookURL == "" {
		infof("SLACK_WEBHOOK_URL が未設定のためスキップ")
		return
	}
	if err := n.postWebhook(n.cfg.SlackWebhookURL, map[string]string{"text": message}); err != nil {
		errorf("Slack 通知送信失敗: %v", err)
		return
	}
	infof("Slack 通知送信成功")
}

// sendDiscord はDiscord Webhookへメッセージを送信する
func (n *Notifier) sendDiscord(message string) {
	if n.cfg.DiscordWebhookURL == "" {
		infof("DISCORD_WEBHOOK_URL が未設定のためスキップ")
		return
	}
	if err := n.postWebhook(n.cfg.DiscordWebhookURL, map[string]string{"content": message}); err != nil {
		errorf("Discord 通知送信失敗: %v", err)
		return
	}
	infof("Discord 通知送信成功")
}

// postWebhook はJSONペイロードをWebhookへPOSTする
func (n *Notifier) postWebhook(url string, payload map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := n.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}
