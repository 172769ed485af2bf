package security

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics with bounded cardinality: reason labels come from the fixed
// Reason set, never from user input.
var (
	requestsChecked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "security_checks_total",
		Help: "Inbound updates evaluated by the security guard",
	})

	requestsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "security_rejections_total",
		Help: "Updates rejected by the security guard",
	}, []string{"reason"})

	suspiciousUsersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "security_suspicious_users",
		Help: "Users ever auto-blocked for suspicious activity",
	})

	storeEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "security_store_entries",
		Help: "Entries in the in-memory rate-limit store after the last sweep",
	})

	cleanupRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "security_cleanup_runs_total",
		Help: "Rate-limit store sweeps executed",
	})

	cleanupRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "security_cleanup_removed_total",
		Help: "Entries removed by rate-limit store sweeps",
	})
)
