// Package metrics holds the Prometheus collectors privmedia exports on
// /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dispatch outcomes, used as the "outcome" label.
const (
	OutcomeServed      = "served"
	OutcomeNotModified = "not_modified"
	OutcomeDenied      = "denied"
	OutcomeNotFound    = "not_found"
	OutcomeInvalidPath = "invalid_path"
	OutcomeError       = "error"
)

var (
	// DispatchTotal counts private file requests by file server and outcome
	DispatchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "privmedia_dispatch_requests_total",
		Help: "The total number of private file requests by file server and outcome",
	}, []string{"server", "outcome"})

	// DispatchDuration records how long a private file request took to answer
	DispatchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "privmedia_dispatch_duration_seconds",
		Help:    "Time taken to answer a private file request",
		Buckets: prometheus.DefBuckets,
	}, []string{"server"})

	// IdentitiesResolved counts resolved request identities by kind
	IdentitiesResolved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "privmedia_identities_resolved_total",
		Help: "The total number of request identities resolved, by kind",
	}, []string{"kind"})

	// InFlightRequests is the number of requests currently being answered
	InFlightRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "privmedia_in_flight_requests",
		Help: "The number of private file requests currently being answered",
	})
)

func init() {
	prometheus.MustRegister(DispatchTotal)
	prometheus.MustRegister(DispatchDuration)
	prometheus.MustRegister(IdentitiesResolved)
	prometheus.MustRegister(InFlightRequests)
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// IdentityKind labels an identity for IdentitiesResolved.
func IdentityKind(authenticated, staff, superuser bool) string {
	switch {
	case superuser:
		return "superuser"
	case staff:
		return "staff"
	case authenticated:
		return "user"
	default:
		return "anonymous"
	}
}
