// =============================================================================
// publish.go - 承認済みツイートのX投稿
// =============================================================================
//
// このファイルはレビュー済みのツイート案（drafts/tweets_*.json）のうち
// status=pending のものを順番にXへ投稿します。
//
// 【クラッシュ耐性の要点】
//   1件投稿するたびにファイル全体を書き戻す。途中でプロセスが落ちても、
//   実際に投稿を試行した分のステータスはディスク上に残る。
//
// 【レート制限】
//   連続した投稿の間（最後の1件の後は除く）に固定の待機を入れる。
//
// 【アーカイブ】
//   ループ完了後（個別の失敗があっても）、ファイルをそのまま
//   posted/posted_<date>.json にコピーする。これが唯一のアーカイブ作成点。
//
// =============================================================================
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Publisher は承認済みツイートの投稿を担当する
type Publisher struct {
	cfg    *Config
	poster TweetPoster         // nilの場合はRun時にXClientを構築
	sleep  func(time.Duration) // テストで差し替え可能
}

// NewPublisher はPublisherを作成する
func NewPublisher(cfg *Config, poster TweetPoster) *Publisher {
	return &Publisher{
		cfg:    cfg,
		poster: poster,
		sleep:  time.Sleep,
	}
}

// RunPost はpostステージ全体を実行する
//
// sessionTypeとdateの両方が指定されていればそのファイルを、
// どちらかが欠けていれば drafts/ 内の辞書順で最新の tweets_*.json を対象にする。
func (p *Publisher) RunPost(ctx context.Context, sessionType, date string) error {
	if err := p.cfg.EnsureDirs(); err != nil {
		return err
	}

	tweetsFile, err := p.locateTweetsFile(sessionType, date)
	if err != nil {
		return err
	}
	if tweetsFile == "" {
		warnf("drafts/ にツイートファイルが見つかりません")
		return nil
	}

	infof("ツイートファイル読み込み: %s", tweetsFile)
	var tweets []Tweet
	if err := readJSONFile(tweetsFile, &tweets); err != nil {
		return fmt.Errorf("read tweets file: %w", err)
	}

	// 投稿対象の絞り込み（pendingのみ。skipは数だけ報告して触らない）
	var pending []*Tweet
	skipped := 0
	for i := range tweets {
		switch tweets[i].Status {
		case StatusPending:
			pending = append(pending, &tweets[i])
		case StatusSkip:
			skipped++
		}
	}

	if skipped > 0 {
		infof("スキップ対象: %d 件", skipped)
	}
	if len(pending) == 0 {
		infof("投稿対象の pending ツイートがありません")
		return nil
	}
	infof("投稿対象: %d 件", len(pending))

	// pendingがある場合のみクライアントを構築する
	// （投稿対象ゼロなら認証情報は不要）
	if p.poster == nil {
		poster, err := NewXClient(p.cfg)
		if err != nil {
			return err
		}
		p.poster = poster
	}

	postedCount := 0
	for i, tweet := range pending {
		if tweet.TweetText == "" {
			warnf("tweet_text が空のためスキップ: id=%s", tweet.ID)
			continue
		}

		infof("投稿中 (%d/%d): %s...", i+1, len(pending), truncateRunes(tweet.TweetText, 50))
		tweetID, postErr := p.poster.PostTweet(ctx, tweet.TweetText)
		if postErr != nil {
			errorf("  -> 投稿失敗: %v", postErr)
			if err := tweet.MarkFailed(postErr.Error()); err != nil {
				warnf("status更新に失敗: %v", err)
			}
		} else {
			if err := tweet.MarkPosted(tweetID, p.cfg.Now().Format(time.RFC3339)); err != nil {
				warnf("status更新に失敗: %v", err)
			} else {
				postedCount++
				infof("  -> 投稿成功 (tweet_id=%s)", tweetID)
			}
		}

		// 途中で落ちてもステータスを失わないよう、1件ごとにファイルを更新する
		if err := writeJSONFile(tweetsFile, tweets); err != nil {
			return fmt.Errorf("write tweets file: %w", err)
		}

		// 最後の1件以外は間隔を空ける
		if i < len(pending)-1 {
			infof("次の投稿まで %v 待機...", p.cfg.PostingInterval)
			p.sleep(p.cfg.PostingInterval)
		}
	}

	// posted/ にそのままコピー（failedも含めた完全な記録）
	postedPath := p.cfg.PostedFilePath(p.cfg.Today())
	if err := copyFile(tweetsFile, postedPath); err != nil {
		return fmt.Errorf("archive tweets file: %w", err)
	}
	infof("投稿済みデータをコピー: %s", postedPath)

	infof("完了: %d 件投稿", postedCount)
	return nil
}

// locateTweetsFile は対象のツイートファイルを決める
//
// 明示指定がないときは drafts/ の tweets_*.json を辞書順で並べ、
// 最新（＝末尾）のものを返す。1件もなければ空文字列を返す。
func (p *Publisher) locateTweetsFile(sessionType, date string) (string, error) {
	if sessionType != "" && date != "" {
		path := p.cfg.TweetsFilePath(sessionType, date)
		if !fileExists(path) {
			return "", fmt.Errorf("ファイルが見つかりません: %s", path)
		}
		return path, nil
	}

	matches, err := filepath.Glob(filepath.Join(p.cfg.DraftsDir, "tweets_*.json"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

// copyFile はファイルをバイト単位でそのままコピーする
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
