// Package metrics holds the process's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kickerbot"

const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	SnapshotRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_refreshes_total",
		Help:      "Snapshot loads by result.",
	}, []string{"result"})

	SnapshotWeek = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "snapshot_week",
		Help:      "Week of the loaded snapshot.",
	})

	SnapshotPlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "snapshot_ranked_players",
		Help:      "Ranked kickers in the loaded snapshot.",
	})

	LiveSyncs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "live_syncs_total",
		Help:      "League live score syncs by result.",
	}, []string{"result"})

	LiveOverrides = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_overrides",
		Help:      "Kickers with a league live score in the last sync.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"route", "code"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

// Result maps an error to its result label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
