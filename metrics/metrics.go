// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Ballot metrics
	BallotsAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ballotbox_ballots_accepted_total",
			Help: "Total number of ballots accepted and tallied",
		},
	)

	BallotsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ballotbox_ballots_rejected_total",
			Help: "Total number of ballots rejected by reason",
		},
		[]string{"reason"},
	)

	// Lifecycle metrics
	LifecycleTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ballotbox_lifecycle_transitions_total",
			Help: "Total number of position lifecycle transitions by kind",
		},
		[]string{"transition"},
	)

	PaperResultBatches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ballotbox_paper_result_batches_total",
			Help: "Total number of paper result batches applied",
		},
	)

	VotersRegistered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ballotbox_voters_registered_total",
			Help: "Total number of voters registered",
		},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ballotbox_api_requests_total",
			Help: "Total number of API requests by method and status",
		},
		[]string{"method", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ballotbox_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

// Transition labels
const (
	TransitionActivate   = "activate"
	TransitionDeactivate = "deactivate"
)

func init() {
	prometheus.MustRegister(
		BallotsAccepted,
		BallotsRejected,
		LifecycleTransitions,
		PaperResultBatches,
		VotersRegistered,
		APIRequestsTotal,
		APIRequestDuration,
	)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
