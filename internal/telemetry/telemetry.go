// Package telemetry holds the process's prometheus collectors. It is a
// purely ambient concern: nothing in the core dispatch path depends on it
// being wired up, and a process with telemetry disabled behaves identically.
package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Collectors bundles the counters and histograms an application worker
// updates as it runs; each worker process registers its own set.
type Collectors struct {
	ConnectionsAccepted prometheus.Counter
	ResponsesByStatus   *prometheus.CounterVec
	StaticDelegations   prometheus.Counter
	AppCallableDuration  prometheus.Histogram
	AppCallableErrors    prometheus.Counter
}

// NewCollectors builds and registers a fresh Collectors against reg.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		ConnectionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nibiru_connections_accepted_total",
			Help: "Number of TCP connections accepted by this worker.",
		}),
		ResponsesByStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nibiru_responses_total",
			Help: "Number of status-only error responses written by this worker, labeled by HTTP status code.",
		}, []string{"status"}),
		StaticDelegations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nibiru_static_delegations_total",
			Help: "Number of requests delegated to the static responder.",
		}),
		AppCallableDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nibiru_app_callable_duration_seconds",
			Help:    "Latency of invoking the application callable.",
			Buckets: prometheus.DefBuckets,
		}),
		AppCallableErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nibiru_app_callable_errors_total",
			Help: "Number of application callable invocations that returned an error.",
		}),
	}
	reg.MustRegister(
		c.ConnectionsAccepted,
		c.ResponsesByStatus,
		c.StaticDelegations,
		c.AppCallableDuration,
		c.AppCallableErrors,
	)
	return c
}
