package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xmastree_checks_total",
		Help: "Total number of completed input checks.",
	}, []string{"kind"})

	ViolationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xmastree_violations_total",
		Help: "Total number of declaration-ordering violations reported.",
	})

	CheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "xmastree_check_seconds",
		Help:    "Time spent checking a single input.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xmastree_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RechecksThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xmastree_rechecks_throttled_total",
		Help: "Total number of watch-mode rechecks dropped by the rate limiter.",
	})
)

// Check kinds used as the label of ChecksTotal.
const (
	KindFile    = "file"
	KindStdin   = "stdin"
	KindRecheck = "recheck"
)
