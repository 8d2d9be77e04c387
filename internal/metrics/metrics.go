// Package metrics defines the Prometheus instrumentation for the
// library service. All collectors are registered with the default
// registry via promauto and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Searches counts search requests, labelled by tag match mode.
	Searches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arcane_searches_total",
		Help: "Number of search requests served.",
	}, []string{"tag_mode"})

	// Mutations counts successful writes, labelled by entity and operation.
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arcane_mutations_total",
		Help: "Number of successful write operations.",
	}, []string{"entity", "op"})

	// StorageErrors counts requests that failed because the backing
	// store could not be read or written.
	StorageErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arcane_storage_errors_total",
		Help: "Number of requests that failed on storage access.",
	})

	// GuestSessions counts ephemeral guest sessions handed out.
	GuestSessions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arcane_guest_sessions_total",
		Help: "Number of guest sessions created.",
	})
)
