package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector 指标收集器
type Collector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 数据库指标
	dbConnectionsActive prometheus.Gauge
	dbConnectionsIdle   prometheus.Gauge

	// 缓存指标
	cacheHitsTotal   *prometheus.CounterVec
	cacheMissesTotal *prometheus.CounterVec

	// 业务指标
	upvoteTogglesTotal    *prometheus.CounterVec
	upvoteRetriesTotal    prometheus.Counter
	uploadsTotal          *prometheus.CounterVec
	receiptDecisionsTotal *prometheus.CounterVec
}

var (
	globalCollector *Collector
	collectorOnce   sync.Once
)

// GetGlobalCollector 获取全局收集器 (惰性创建，promauto 指标只能注册一次)
func GetGlobalCollector() *Collector {
	collectorOnce.Do(func() {
		globalCollector = newCollector()
	})
	return globalCollector
}

func newCollector() *Collector {
	return &Collector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "penned_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "penned_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		dbConnectionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "penned_db_connections_active",
				Help: "Number of active database connections",
			},
		),
		dbConnectionsIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "penned_db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
		cacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "penned_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"key_prefix"},
		),
		cacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "penned_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"key_prefix"},
		),
		upvoteTogglesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "penned_upvote_toggles_total",
				Help: "Upvote toggle transactions by outcome",
			},
			[]string{"outcome"}, // added, removed, conflict, error
		),
		upvoteRetriesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "penned_upvote_retries_total",
				Help: "Upvote transactions retried after commit conflict",
			},
		),
		uploadsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "penned_uploads_total",
				Help: "Object storage uploads by result",
			},
			[]string{"result"}, // ok, rejected, error
		),
		receiptDecisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "penned_receipt_decisions_total",
				Help: "Subscription receipt decisions",
			},
			[]string{"decision"}, // approved, rejected
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *Collector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// SetDBConnections 更新数据库连接池指标
func (m *Collector) SetDBConnections(active, idle int) {
	m.dbConnectionsActive.Set(float64(active))
	m.dbConnectionsIdle.Set(float64(idle))
}

// RecordCacheAccess 记录缓存命中/未命中
func (m *Collector) RecordCacheAccess(keyPrefix string, hit bool) {
	if hit {
		m.cacheHitsTotal.WithLabelValues(keyPrefix).Inc()
	} else {
		m.cacheMissesTotal.WithLabelValues(keyPrefix).Inc()
	}
}

// RecordUpvoteToggle 记录点赞切换结果
func (m *Collector) RecordUpvoteToggle(outcome string) {
	m.upvoteTogglesTotal.WithLabelValues(outcome).Inc()
}

// RecordUpvoteRetry 记录点赞事务重试
func (m *Collector) RecordUpvoteRetry() {
	m.upvoteRetriesTotal.Inc()
}

// RecordUpload 记录上传结果
func (m *Collector) RecordUpload(result string) {
	m.uploadsTotal.WithLabelValues(result).Inc()
}

// RecordReceiptDecision 记录收据审批结果
func (m *Collector) RecordReceiptDecision(decision string) {
	m.receiptDecisionsTotal.WithLabelValues(decision).Inc()
}
