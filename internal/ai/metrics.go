package ai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_relay_ai_requests_total",
			Help: "Total number of requests to the generative AI API.",
		},
		[]string{"model", "kind", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "story_relay_ai_request_duration_seconds",
			Help:    "Histogram of generative AI request durations.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 90, 120},
		},
		[]string{"model", "kind"},
	)
)
