package advisory

import (
	"context"
	"log/slog"
	"time"
)

// FeedFetcher は渡航情報フェッチの実行インターフェース。
type FeedFetcher interface {
	// FetchOnce はフィードを1回フェッチし、保存した件数を返す。
	FetchOnce(ctx context.Context) (int, error)
}

// maxBackoff は連続失敗時の待機間隔の上限。
const maxBackoff = 12 * time.Hour

// Worker は渡航情報フィードの定期フェッチを行う。
// 連続失敗時は指数バックオフで間隔を広げ、コンテキストのキャンセルで停止する。
type Worker struct {
	fetcher FeedFetcher
	logger  *slog.Logger

	consecutiveFailures int
}

// NewWorker はWorkerの新しいインスタンスを生成する。
func NewWorker(fetcher FeedFetcher, logger *slog.Logger) *Worker {
	return &Worker{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Start は指定間隔でワーカーを起動する。
// 起動直後に1回実行し、以降はコンテキストがキャンセルされるまで継続する。
// フェッチが連続して失敗した場合、次回までの待機時間を指数的に延ばす。
func (w *Worker) Start(ctx context.Context, interval time.Duration) {
	w.logger.Info("渡航情報ワーカーを開始しました",
		slog.Duration("interval", interval),
	)

	// 起動直後に1回実行
	w.runOnce(ctx)

	timer := time.NewTimer(nextDelay(interval, w.consecutiveFailures))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("渡航情報ワーカーを停止しました")
			return
		case <-timer.C:
			w.runOnce(ctx)
			timer.Reset(nextDelay(interval, w.consecutiveFailures))
		}
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	if _, err := w.fetcher.FetchOnce(ctx); err != nil {
		w.consecutiveFailures++
		w.logger.Error("渡航情報フェッチに失敗しました",
			slog.String("error", err.Error()),
			slog.Int("consecutive_failures", w.consecutiveFailures),
		)
		return
	}
	w.consecutiveFailures = 0
}

// nextDelay は連続失敗回数に基づいて次回フェッチまでの待機時間を計算する。
// 失敗のたびに2倍ずつ増加し、maxBackoffを上限とする。
func nextDelay(interval time.Duration, consecutiveFailures int) time.Duration {
	delay := interval
	for i := 0; i < consecutiveFailures; i++ {
		delay *= 2
		if delay > maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
