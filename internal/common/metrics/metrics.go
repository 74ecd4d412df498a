// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgen_searches_total",
			Help: "Total number of searches by kind (fresh, load_more, area) and outcome",
		},
		[]string{"kind", "outcome"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadgen_search_duration_seconds",
			Help:    "Duration of the generative search round trip in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"kind"},
	)

	RecordsParsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadgen_records_parsed_total",
			Help: "Business records extracted from model output",
		},
	)

	BlocksDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgen_blocks_dropped_total",
			Help: "Record blocks discarded by the parser",
		},
		[]string{"reason"},
	)

	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgen_exports_total",
			Help: "Exports produced by format",
		},
		[]string{"format"},
	)

	ExportedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgen_exported_records_total",
			Help: "Records written into export files by format",
		},
		[]string{"format"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgen_http_requests_total",
			Help: "API requests by route and status code",
		},
		[]string{"route", "status"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "leadgen_sessions_active",
			Help: "Sessions held by the in-memory session store",
		},
	)

	GeocodeLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgen_geocode_lookups_total",
			Help: "Place lookups by direction and outcome (hit, miss, cached, error)",
		},
		[]string{"direction", "outcome"},
	)

	ActiveSearches = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "leadgen_searches_active",
			Help: "Searches currently awaiting the model",
		},
	)
)
