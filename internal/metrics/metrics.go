// Package metrics exposes Prometheus collectors for seed activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SeedTransitions counts committed lifecycle transitions by name
	SeedTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seeds_lifecycle_transitions_total",
			Help: "Committed seed lifecycle transitions",
		},
		[]string{"transition"},
	)

	// SeedsCreated counts seeds planted through the create action
	SeedsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seeds_created_total",
			Help: "Seeds created",
		},
	)

	// SupportToggles counts support ledger flips by resulting state
	SupportToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seeds_support_toggles_total",
			Help: "Support toggles by resulting state",
		},
		[]string{"state"},
	)

	// RosterChanges counts admin allow-list changes and the role writes they caused
	RosterChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seeds_admin_roster_changes_total",
			Help: "Admin roster changes",
		},
		[]string{"action"},
	)

	// ImageGenerations counts image side-task outcomes
	ImageGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seeds_image_generations_total",
			Help: "Seed image generation attempts by outcome",
		},
		[]string{"outcome"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of http request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)
)
