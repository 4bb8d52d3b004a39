package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"strconv"
	"studymate/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(key string)
	IncCacheMisses(key string)
	ObserveStorageWrite(duration time.Duration)
	IncQuotaExceeded(key string)
	AddSessionsEvicted(count int)
	IncImagesStripped()
	IncImageGenerations(paid bool)
	SetSessionsTotal(count int)
}

type MetricsProvider struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
	storageWrite     prometheus.Histogram
	quotaExceeded    *prometheus.CounterVec
	sessionsEvicted  prometheus.Counter
	imagesStripped   prometheus.Counter
	imageGenerations *prometheus.CounterVec
	sessionsTotal    prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(key string) {
	m.cacheHits.WithLabelValues(key).Inc()
}

func (m *MetricsProvider) IncCacheMisses(key string) {
	m.cacheMisses.WithLabelValues(key).Inc()
}

func (m *MetricsProvider) ObserveStorageWrite(duration time.Duration) {
	m.storageWrite.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncQuotaExceeded(key string) {
	m.quotaExceeded.WithLabelValues(key).Inc()
}

func (m *MetricsProvider) AddSessionsEvicted(count int) {
	m.sessionsEvicted.Add(float64(count))
}

func (m *MetricsProvider) IncImagesStripped() {
	m.imagesStripped.Inc()
}

func (m *MetricsProvider) IncImageGenerations(paid bool) {
	m.imageGenerations.WithLabelValues(strconv.FormatBool(paid)).Inc()
}

func (m *MetricsProvider) SetSessionsTotal(count int) {
	m.sessionsTotal.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "studymate_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studymate_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "studymate_cache_hits_total",
			Help: "Record cache hits per record",
		}, []string{"record"}),

		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "studymate_cache_misses_total",
			Help: "Record cache misses per record",
		}, []string{"record"}),

		storageWrite: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "studymate_storage_write_duration_seconds",
			Help:    "Duration of record store writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		quotaExceeded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "studymate_quota_exceeded_total",
			Help: "Writes rejected because the storage quota was exceeded",
		}, []string{"key"}),

		sessionsEvicted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studymate_sessions_evicted_total",
			Help: "Chat sessions removed to recover storage space",
		}),

		imagesStripped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studymate_images_stripped_total",
			Help: "Sessions whose images were stripped to recover storage space",
		}),

		imageGenerations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "studymate_image_generations_total",
			Help: "Generated study images",
		}, []string{"paid"}),

		sessionsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "studymate_sessions_total",
			Help: "Chat sessions currently stored",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits(_ string)                            {}
func (n *noopMetrics) IncCacheMisses(_ string)                          {}
func (n *noopMetrics) ObserveStorageWrite(_ time.Duration)              {}
func (n *noopMetrics) IncQuotaExceeded(_ string)                        {}
func (n *noopMetrics) AddSessionsEvicted(_ int)                         {}
func (n *noopMetrics) IncImagesStripped()                               {}
func (n *noopMetrics) IncImageGenerations(_ bool)                       {}
func (n *noopMetrics) SetSessionsTotal(_ int)                           {}
