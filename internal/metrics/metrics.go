package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ranking kinds, used as the kind label.
const (
	KindScore  = "score"
	KindWhatIf = "what_if"
)

// Pros/cons outcomes, used as the outcome label.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

type Metrics struct {
	Rankings        *prometheus.CounterVec
	RankingFailures *prometheus.CounterVec
	SchoolsDropped  prometheus.Counter
	SchoolsExcluded prometheus.Counter
	RankingDuration *prometheus.HistogramVec
	ProsCons        *prometheus.CounterVec
}

// New registers the catchment collectors with reg. Pass
// prometheus.DefaultRegisterer in production so promhttp.Handler serves them.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Rankings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catchment_rankings_total",
			Help: "Rankings computed, by kind.",
		}, []string{"kind"}),
		RankingFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catchment_ranking_failures_total",
			Help: "Ranking requests that failed after validation, by kind.",
		}, []string{"kind"}),
		SchoolsDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "catchment_schools_dropped_total",
			Help: "Requested school ids with no attribute snapshot.",
		}),
		SchoolsExcluded: f.NewCounter(prometheus.CounterOpts{
			Name: "catchment_schools_excluded_total",
			Help: "Schools removed by what-if constraints.",
		}),
		RankingDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catchment_ranking_duration_seconds",
			Help:    "Time to fetch, filter and score a ranking.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		ProsCons: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catchment_pros_cons_total",
			Help: "Pros/cons requests, by outcome.",
		}, []string{"outcome"}),
	}
}
