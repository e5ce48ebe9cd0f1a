package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RowsIngestedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "import_rows_ingested_total",
		Help: "Total number of spreadsheet rows persisted, by schema kind",
	}, []string{"kind"})

	RowWarningsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "import_row_warnings_total",
		Help: "Total number of rows skipped or rejected during ingestion",
	}, []string{"kind"})

	MatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "import_matches_total",
		Help: "Total number of lines resolved, by match source",
	}, []string{"source"})

	EmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "import_emission_outcomes_total",
		Help: "Total number of emission outcomes, by outcome",
	}, []string{"outcome"})

	ImportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "import_duration_seconds",
		Help:    "Duration of a full upload run",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
)
