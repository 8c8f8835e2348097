// =============================================================================
// main.go - news-bot CLIのエントリーポイント
// =============================================================================
//
// ニュース収集 -> ツイート生成 -> 人間レビュー -> X投稿 -> 通知・レポート
// のパイプラインを、ステージごとのサブコマンドとして提供するCLIです。
//
// 【サブコマンド一覧】
//   fetch <morning|evening>          ニュースを取得して drafts/news_*.json に保存
//   generate <morning|evening>       Claude APIでツイート案を生成
//   post [--session-type] [--date]   pendingのツイートをXに投稿
//   notify <draft|posted> [session]  Slack / Discord に通知
//   weekly-report <start> <end>      週次レポートを標準出力に出力
//   pr-body <draft_file>             レビューPRのbody用Markdownを出力
//
// 各ステージはGitHub Actions等の外部スケジューラから個別に起動される想定で、
// ステージ間の受け渡しは drafts/ posted/ のJSONファイルのみ。
//
// =============================================================================
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/daikon0313/news-bot/internal/pipeline"
)

func main() {
	// .env があれば読み込む（なくても環境変数だけで動く）
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "INFO: .env file not loaded: %v (using environment variables only)\n", err)
	}

	var baseDir string

	root := &cobra.Command{
		Use:           "newsbot",
		Short:         "news-bot — ニュース収集からX投稿までの定期実行パイプライン",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&baseDir, "base-dir", ".", "データディレクトリのベースパス")

	cfg := func() *pipeline.Config { return pipeline.LoadConfig(baseDir) }

	root.AddCommand(
		fetchCmd(cfg),
		generateCmd(cfg),
		postCmd(cfg),
		notifyCmd(cfg),
		weeklyReportCmd(cfg),
		prBodyCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

// fetchCmd はニュース取得サブコマンド
func fetchCmd(cfg func() *pipeline.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <morning|evening>",
		Short: "ニュースソースから記事を取得する",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := pipeline.NewFetcher(cfg()).RunFetch(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("完了: %s\n", path)
			return nil
		},
	}
}

// generateCmd はツイート生成サブコマンド
func generateCmd(cfg func() *pipeline.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <morning|evening>",
		Short: "Claude APIでツイート案を生成する",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			if catalog, err := pipeline.LoadSourceCatalog(c.SourcesPath); err == nil {
				c.ApplyCatalog(catalog)
			}
			gen := pipeline.NewGenerator(c, nil)
			path, err := gen.RunGenerate(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("完了: %s\n", path)
			return nil
		},
	}
}

// postCmd はX投稿サブコマンド
func postCmd(cfg func() *pipeline.Config) *cobra.Command {
	var sessionType, date string

	cmd := &cobra.Command{
		Use:   "post",
		Short: "pendingのツイートをXに投稿する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			if catalog, err := pipeline.LoadSourceCatalog(c.SourcesPath); err == nil {
				c.ApplyCatalog(catalog)
			}
			return pipeline.NewPublisher(c, nil).RunPost(context.Background(), sessionType, date)
		},
	}
	cmd.Flags().StringVar(&sessionType, "session-type", "", "セッション種別 (morning / evening)")
	cmd.Flags().StringVar(&date, "date", "", "日付 (YYYY-MM-DD)")
	return cmd
}

// notifyCmd は通知サブコマンド
//
// セッション種別は位置引数とフラグの両方で受け取れる（フラグ優先）。
func notifyCmd(cfg func() *pipeline.Config) *cobra.Command {
	var sessionTypeFlag, prURL string

	cmd := &cobra.Command{
		Use:   "notify <draft|posted> [session]",
		Short: "Slack / Discord に通知を送る",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionType := ""
			if len(args) > 1 {
				sessionType = args[1]
			}
			if sessionTypeFlag != "" {
				sessionType = sessionTypeFlag
			}
			return pipeline.NewNotifier(cfg()).RunNotify(args[0], sessionType, prURL)
		},
	}
	cmd.Flags().StringVar(&sessionTypeFlag, "session-type", "", "セッション種別（位置引数より優先）")
	cmd.Flags().StringVar(&prURL, "pr-url", "", "レビューPRのURL（draft通知時にオプション）")
	return cmd
}

// weeklyReportCmd は週次レポートサブコマンド
func weeklyReportCmd(cfg func() *pipeline.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "weekly-report <week_start> <week_end>",
		Short: "週次投稿分析レポートを標準出力に出力する",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reporter := pipeline.NewReporter(cfg(), os.Stdout, os.Stderr)
			return reporter.RunWeeklyReport(args[0], args[1])
		},
	}
}

// prBodyCmd はPR body生成サブコマンド
func prBodyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pr-body <draft_file>",
		Short: "ツイート案をPR body用にフォーマットする",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return pipeline.FormatPRBody(args[0], os.Stdout)
		},
	}
}
