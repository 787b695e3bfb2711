package imagecache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	lookupHit   = "hit"
	lookupMiss  = "miss"
	lookupError = "error"
)

var (
	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_relay_image_cache_lookups_total",
			Help: "Image cache lookups by result (hit, miss, error).",
		},
		[]string{"result"},
	)
	cacheStoresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_relay_image_cache_stores_total",
			Help: "Image cache writes by status.",
		},
		[]string{"status"},
	)
)
