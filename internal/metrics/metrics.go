// Package metrics holds the Prometheus collectors for the service.  All
// collectors register on the default registry, which /metrics serves.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinemood_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Stores
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinemood_store_query_duration_seconds",
			Help:    "Duration of store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_store_query_errors_total",
			Help: "Total number of failed store operations",
		},
		[]string{"operation"},
	)

	// Domain
	EmotionLabelsAssigned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_emotion_labels_assigned_total",
			Help: "Emotion labels written by classification, by label",
		},
		[]string{"emotion"},
	)

	FavoriteToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_favorite_toggles_total",
			Help: "Favorite toggles by resulting state",
		},
		[]string{"state"}, // "added", "removed"
	)

	EventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_event_publish_failures_total",
			Help: "Domain events that could not be published",
		},
		[]string{"queue"},
	)

	// Cache
	CacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_response_cache_total",
			Help: "Response cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)
)

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordStoreOp records the latency and outcome of a store call.
func RecordStoreOp(operation string, start time.Time, err error) {
	StoreQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordEmotions counts each label assigned by one classification.
func RecordEmotions(labels []string) {
	for _, l := range labels {
		EmotionLabelsAssigned.WithLabelValues(l).Inc()
	}
}

// RecordFavoriteToggle counts a toggle by its post-toggle state.
func RecordFavoriteToggle(favorited bool) {
	state := "removed"
	if favorited {
		state = "added"
	}
	FavoriteToggles.WithLabelValues(state).Inc()
}

// RecordPublishFailure counts an event that was dropped.
func RecordPublishFailure(queue string) {
	EventPublishFailures.WithLabelValues(queue).Inc()
}

// RecordCacheLookup counts a response cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		CacheResults.WithLabelValues("hit").Inc()
		return
	}
	CacheResults.WithLabelValues("miss").Inc()
}
