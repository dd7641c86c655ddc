// Package monitoring provides Prometheus metrics collection for the
// engine and its HTTP surface.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/savoria/engine/internal/ports/outbound"
)

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger *zap.Logger

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Engine metrics
	trainingsTotal        prometheus.Counter
	trainingDuration      prometheus.Histogram
	modelUsers            prometheus.Gauge
	modelItems            prometheus.Gauge
	modelRatings          prometheus.Gauge
	recommendationsTotal  *prometheus.CounterVec
	recommendationLatency prometheus.Histogram
	ratingsSavedTotal     prometheus.Counter
	cacheOperations       *prometheus.CounterVec
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	return &MetricsCollector{
		logger: logger,

		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),

		trainingsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "engine_trainings_total",
				Help: "Total number of completed model trainings",
			},
		),
		trainingDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "engine_training_duration_seconds",
				Help:    "Model training duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
			},
		),
		modelUsers: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "engine_model_users",
				Help: "Users in the current model snapshot",
			},
		),
		modelItems: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "engine_model_items",
				Help: "Items in the current model snapshot",
			},
		),
		modelRatings: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "engine_model_ratings",
				Help: "Ratings in the current model snapshot",
			},
		),
		recommendationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_recommendations_total",
				Help: "Total number of recommendation requests served",
			},
			[]string{"status"},
		),
		recommendationLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "engine_recommendation_duration_seconds",
				Help:    "Recommendation computation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		ratingsSavedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "engine_ratings_saved_total",
				Help: "Total number of ratings saved",
			},
		),
		cacheOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_cache_operations_total",
				Help: "Recommendation cache operations by result",
			},
			[]string{"result"},
		),
	}
}

var _ outbound.EngineMetrics = (*MetricsCollector)(nil)

// RecordTraining records one completed training run.
func (m *MetricsCollector) RecordTraining(duration time.Duration, users, items, ratings int) {
	m.trainingsTotal.Inc()
	m.trainingDuration.Observe(duration.Seconds())
	m.modelUsers.Set(float64(users))
	m.modelItems.Set(float64(items))
	m.modelRatings.Set(float64(ratings))
}

// RecordRecommendation records one served recommendation.
func (m *MetricsCollector) RecordRecommendation(status string, duration time.Duration) {
	m.recommendationsTotal.WithLabelValues(status).Inc()
	m.recommendationLatency.Observe(duration.Seconds())
}

// RecordRating records one saved rating.
func (m *MetricsCollector) RecordRating() {
	m.ratingsSavedTotal.Inc()
}

// RecordCacheHit records a recommendation cache hit.
func (m *MetricsCollector) RecordCacheHit() {
	m.cacheOperations.WithLabelValues("hit").Inc()
}

// RecordCacheMiss records a recommendation cache miss.
func (m *MetricsCollector) RecordCacheMiss() {
	m.cacheOperations.WithLabelValues("miss").Inc()
}

// RecordHTTPRequest records one HTTP request.
func (m *MetricsCollector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	m.httpRequestsTotal.WithLabelValues(method, path, code).Inc()
	m.httpRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

// Handler returns the Prometheus scrape handler.
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.Handler()
}
