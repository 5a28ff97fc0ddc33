// Package metrics holds the Prometheus instruments used across the portal.
// All collectors are registered with the global registry in init, so the
// /metrics endpoint exposes them as soon as this package is imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CatalogQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_queries_total",
			Help: "Catalog searches by outcome (ok, invalid, unavailable, timeout).",
		}, []string{"outcome"})

	CatalogQueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_query_duration_seconds",
			Help:    "Latency of catalog searches including the provider round-trip.",
			Buckets: prometheus.DefBuckets,
		})

	PlaysTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plays_total",
			Help: "Play events by whether they were counted or deduplicated.",
		}, []string{"counted"})

	AchievementsUnlockedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "achievements_unlocked_total",
			Help: "Cumulative number of achievements granted to users.",
		})

	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Domain events handed to a sink, by sink and outcome.",
		}, []string{"sink", "outcome"})

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Jobs waiting in the background worker queue.",
		})
)

func init() {
	prometheus.MustRegister(
		CatalogQueriesTotal,
		CatalogQueryDuration,
		PlaysTotal,
		AchievementsUnlockedTotal,
		EventsPublishedTotal,
		WorkerQueueDepth,
	)
}
