// Package metrics registers the Prometheus collectors for the query API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviehub_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviehub_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Queries, labelled by operation and whether the lookup matched.
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_queries_total",
			Help: "Total number of catalog queries by operation and outcome",
		},
		[]string{"operation", "found"},
	)

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_recommendations_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moviehub_recommendation_duration_seconds",
			Help:    "Time spent ranking one recommendation request",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
	)

	// Catalog
	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviehub_catalog_movies",
			Help: "Number of movies in the loaded catalog",
		},
	)

	MatrixRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviehub_feature_matrix_rows",
			Help: "Number of rows in the feature matrix",
		},
	)

	// Query sessions
	SessionConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moviehub_session_connections",
			Help: "Current number of open query sessions",
		},
		[]string{"transport"}, // "websocket", "tcp"
	)

	SessionFramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_session_frames_total",
			Help: "Total number of session frames by transport and direction",
		},
		[]string{"transport", "direction"}, // direction: "in", "out"
	)
)

func RecordAPIRequest(method, endpoint, statusCode string, d time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}

func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func RecordQuery(operation string, found bool) {
	QueriesTotal.WithLabelValues(operation, strconv.FormatBool(found)).Inc()
}

// RecordRecommendation takes the outcome name from
// models.RecommendationStatus.String().
func RecordRecommendation(outcome string, d time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(d.Seconds())
}

func SetCatalogSize(movies, matrixRows int) {
	CatalogMovies.Set(float64(movies))
	MatrixRows.Set(float64(matrixRows))
}

func TrackSession(transport string, open bool) {
	if open {
		SessionConnections.WithLabelValues(transport).Inc()
	} else {
		SessionConnections.WithLabelValues(transport).Dec()
	}
}

func RecordSessionFrame(transport, direction string) {
	SessionFramesTotal.WithLabelValues(transport, direction).Inc()
}
