package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_refresh_runs_total",
			Help: "Total number of price refresh runs",
		},
		[]string{"result"},
	)

	refreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tracker_refresh_duration_seconds",
			Help:    "Time taken by one full refresh run",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	refreshUnitFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tracker_refresh_unit_failures_total",
			Help: "Total number of watchlists or subjects that failed to refresh",
		},
	)

	snapshotsWrittenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tracker_snapshots_written_total",
			Help: "Total number of stat snapshots appended",
		},
	)

	alertsFiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tracker_alerts_fired_total",
			Help: "Total number of alert rules fired",
		},
	)

	alertRuleFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tracker_alert_rule_failures_total",
			Help: "Total number of alert rules that failed to evaluate",
		},
	)

	feedCyclesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tracker_feed_cycles_total",
			Help: "Total number of feed rotation cycles",
		},
	)
)
