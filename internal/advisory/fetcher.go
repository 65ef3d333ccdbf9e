// Package advisory は渡航情報フィードの取得・保存・参照を提供する。
// バックグラウンドワーカー、SSRF防止付きフェッチャー、参照サービスを含む。
package advisory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/hitoshi/ceylon/internal/model"
	"github.com/hitoshi/ceylon/internal/repository"
	"github.com/hitoshi/ceylon/internal/security"
)

// MetricsRecorder はフェッチ結果のメトリクス記録インターフェース。
// nilの場合は記録をスキップする。
type MetricsRecorder interface {
	RecordAdvisoryFetchSuccess()
	RecordAdvisoryFetchFailure()
}

// FetcherConfig はフェッチャーの設定。
type FetcherConfig struct {
	FeedURL     string        // 渡航情報フィードのURL
	Timeout     time.Duration // HTTPタイムアウト
	MaxBodySize int64         // レスポンスボディの最大サイズ（バイト）
}

// Fetcher は渡航情報フィードのHTTPフェッチとパースを行う。
// SSRF検証、gofeedによるパース、サニタイズ、GUIDをキーにしたUPSERTを実行する。
type Fetcher struct {
	advisoryRepo repository.AdvisoryRepository
	ssrfGuard    security.SSRFGuardService
	sanitizer    security.SanitizerService
	logger       *slog.Logger
	config       FetcherConfig
	metrics      MetricsRecorder
}

// NewFetcher はFetcherの新しいインスタンスを生成する。metricsはnil可。
func NewFetcher(
	advisoryRepo repository.AdvisoryRepository,
	ssrfGuard security.SSRFGuardService,
	sanitizer security.SanitizerService,
	logger *slog.Logger,
	config FetcherConfig,
	metrics MetricsRecorder,
) *Fetcher {
	return &Fetcher{
		advisoryRepo: advisoryRepo,
		ssrfGuard:    ssrfGuard,
		sanitizer:    sanitizer,
		logger:       logger,
		config:       config,
		metrics:      metrics,
	}
}

// FetchOnce はフィードを1回フェッチし、保存した件数を返す。
// 同一GUIDの再取得は冪等に上書きされる。
func (f *Fetcher) FetchOnce(ctx context.Context) (int, error) {
	start := time.Now()

	// SSRF検証
	if err := f.ssrfGuard.ValidateURL(f.config.FeedURL); err != nil {
		f.recordFailure()
		return 0, fmt.Errorf("SSRF検証に失敗: %w", err)
	}

	client := f.ssrfGuard.NewSafeClient(f.config.Timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.config.FeedURL, nil)
	if err != nil {
		f.recordFailure()
		return 0, fmt.Errorf("リクエスト作成に失敗: %w", err)
	}

	req.Header.Set("User-Agent", "CeylonExplorer/1.0 Advisory Fetcher")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := client.Do(req)
	if err != nil {
		f.recordFailure()
		return 0, fmt.Errorf("HTTPリクエスト失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.recordFailure()
		return 0, fmt.Errorf("予期しないHTTPステータス: %d", resp.StatusCode)
	}

	// レスポンスボディを読み込み（最大サイズ制限付き）
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize))
	if err != nil {
		f.recordFailure()
		return 0, fmt.Errorf("レスポンス読み取り失敗: %w", err)
	}

	parser := gofeed.NewParser()
	parsedFeed, err := parser.ParseString(string(body))
	if err != nil {
		f.recordFailure()
		return 0, fmt.Errorf("フィードのパースに失敗: %w", err)
	}

	stored := 0
	for _, item := range parsedFeed.Items {
		advisory := f.convertItem(item)
		if advisory == nil {
			continue
		}
		if err := f.advisoryRepo.Upsert(ctx, advisory); err != nil {
			f.logger.Error("渡航情報の保存に失敗しました",
				slog.String("guid", advisory.GUID),
				slog.String("error", err.Error()),
			)
			continue
		}
		stored++
	}

	if f.metrics != nil {
		f.metrics.RecordAdvisoryFetchSuccess()
	}
	f.logger.Info("渡航情報フェッチが完了しました",
		slog.String("feed_url", f.config.FeedURL),
		slog.Int("items_total", len(parsedFeed.Items)),
		slog.Int("items_stored", stored),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return stored, nil
}

// convertItem はgofeedの記事をmodel.Advisoryに変換する。
// GUIDもリンクもない記事は重複判定ができないためスキップする。
func (f *Fetcher) convertItem(item *gofeed.Item) *model.Advisory {
	if item == nil {
		return nil
	}

	guid := item.GUID
	if guid == "" {
		guid = item.Link
	}
	if guid == "" {
		return nil
	}

	advisory := &model.Advisory{
		ID:        uuid.New().String(),
		GUID:      guid,
		Title:     f.sanitizer.SanitizeText(item.Title),
		Link:      item.Link,
		Summary:   f.sanitizer.SanitizeSummary(item.Description),
		FetchedAt: time.Now(),
	}

	if item.PublishedParsed != nil {
		advisory.PublishedAt = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		advisory.PublishedAt = *item.UpdatedParsed
	} else {
		advisory.PublishedAt = advisory.FetchedAt
	}

	return advisory
}

func (f *Fetcher) recordFailure() {
	if f.metrics != nil {
		f.metrics.RecordAdvisoryFetchFailure()
	}
}
