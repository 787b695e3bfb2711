package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	imageResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_relay_image_resolutions_total",
			Help: "Location image resolutions by outcome (cache_hit, generated, unavailable).",
		},
		[]string{"outcome"},
	)
	modelResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_relay_model_responses_total",
			Help: "Structured model responses by kind and result (ok, empty, malformed, error).",
		},
		[]string{"kind", "result"},
	)
)
