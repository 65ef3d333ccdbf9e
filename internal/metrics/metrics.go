// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とワーカーから利用する。
type MetricsCollector interface {
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordRegistration()
	RecordPlaceWrite(operation string)
	RecordAdvisoryFetchSuccess()
	RecordAdvisoryFetchFailure()
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	loginSuccess   prometheus.Counter
	loginFail      prometheus.Counter
	registrations  prometheus.Counter
	placeWrites    *prometheus.CounterVec
	advisoryOK     prometheus.Counter
	advisoryFail   prometheus.Counter
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ceylon_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ceylon_login_fail_total",
			Help: "ログイン失敗の合計数",
		}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ceylon_registrations_total",
			Help: "アカウント登録の合計数",
		}),
		placeWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ceylon_place_writes_total",
			Help: "プレイス書き込み操作の合計数",
		}, []string{"operation"}),
		advisoryOK: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ceylon_advisory_fetch_success_total",
			Help: "渡航情報フェッチ成功の合計数",
		}),
		advisoryFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ceylon_advisory_fetch_fail_total",
			Help: "渡航情報フェッチ失敗の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ceylon_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ceylon_request_latency_seconds",
			Help:    "HTTPリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.loginSuccess,
		c.loginFail,
		c.registrations,
		c.placeWrites,
		c.advisoryOK,
		c.advisoryFail,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordRegistration はアカウント登録を記録する。
func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

// RecordPlaceWrite はプレイス書き込み操作を記録する。
func (c *Collector) RecordPlaceWrite(operation string) {
	c.placeWrites.WithLabelValues(operation).Inc()
}

// RecordAdvisoryFetchSuccess は渡航情報フェッチ成功を記録する。
func (c *Collector) RecordAdvisoryFetchSuccess() {
	c.advisoryOK.Inc()
}

// RecordAdvisoryFetchFailure は渡航情報フェッチ失敗を記録する。
func (c *Collector) RecordAdvisoryFetchFailure() {
	c.advisoryFail.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
