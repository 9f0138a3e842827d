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
// ハンドラー、カルーセル、ワーカーから利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordArtworkView(artworkID string)
	RecordCarouselWrap()
	RecordCatalogDeriveLatency(duration time.Duration)
	RecordImageOptimizeLatency(duration time.Duration)
	RecordPopularityRefresh(updated int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus        *prometheus.CounterVec
	artworkViews      prometheus.Counter
	carouselWraps     prometheus.Counter
	catalogLatency    prometheus.Histogram
	optimizeLatency   prometheus.Histogram
	popularityUpdates prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "galeria_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		artworkViews: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "galeria_artwork_views_total",
			Help: "作品詳細の閲覧の合計数",
		}),
		carouselWraps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "galeria_carousel_wraps_total",
			Help: "カルーセルの末尾から先頭への巻き戻しの合計数",
		}),
		catalogLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "galeria_catalog_derive_latency_seconds",
			Help:    "ギャラリービュー導出（フィルタ・ソート・ページング）のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		optimizeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "galeria_image_optimize_latency_seconds",
			Help:    "画像最適化のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		popularityUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "galeria_popularity_updates_total",
			Help: "人気度スコアを更新した作品の合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.artworkViews,
		c.carouselWraps,
		c.catalogLatency,
		c.optimizeLatency,
		c.popularityUpdates,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordArtworkView は作品詳細の閲覧を記録する。
func (c *Collector) RecordArtworkView(artworkID string) {
	c.artworkViews.Inc()
}

// RecordCarouselWrap はカルーセルの巻き戻しを記録する。
func (c *Collector) RecordCarouselWrap() {
	c.carouselWraps.Inc()
}

// RecordCatalogDeriveLatency はギャラリービュー導出のレイテンシを記録する。
func (c *Collector) RecordCatalogDeriveLatency(duration time.Duration) {
	c.catalogLatency.Observe(duration.Seconds())
}

// RecordImageOptimizeLatency は画像最適化のレイテンシを記録する。
func (c *Collector) RecordImageOptimizeLatency(duration time.Duration) {
	c.optimizeLatency.Observe(duration.Seconds())
}

// RecordPopularityRefresh は人気度スコアを更新した作品数を記録する。
func (c *Collector) RecordPopularityRefresh(updated int) {
	c.popularityUpdates.Add(float64(updated))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
