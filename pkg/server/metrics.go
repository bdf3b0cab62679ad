package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lintRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "causicad_lint_requests_total",
		Help: "The total number of lint requests",
	}, []string{"kind"})

	resolutionsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "causicad_resolutions_total",
		Help: "The total number of resolve runs against the registries",
	})

	resolutionCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "causicad_resolution_cache_hits_total",
		Help: "The total number of resolve requests served from the store",
	})
)
