package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ngmaloney/exuma-cuts/internal/models"
)

const (
	// OutcomeSuccess labels fetches that returned usable data.
	OutcomeSuccess = "success"
	// OutcomeError labels failed fetches.
	OutcomeError = "error"
	// OutcomeDiscarded labels fetches that finished after a newer one had started.
	OutcomeDiscarded = "discarded"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheStale = "stale"
)

var (
	fetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "exuma_cuts",
			Name:      "fetches_total",
			Help:      "Upstream fetches, partitioned by source and outcome.",
		},
		[]string{"source", "outcome"},
	)

	fetchDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "exuma_cuts",
			Name:      "fetch_seconds",
			Help:      "Upstream fetch latency in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"source"},
	)

	cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "exuma_cuts",
			Name:      "cache_lookups_total",
			Help:      "Cache reads, partitioned by source and result.",
		},
		[]string{"source", "result"},
	)

	dataAgeSeconds = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "exuma_cuts",
			Name:      "data_age_seconds",
			Help:      "Age of the data currently held for each source.",
		},
		[]string{"source"},
	)

	cutSafety = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "exuma_cuts",
			Name:      "cut_safety",
			Help:      "1 for the current safety level of each cut, 0 for the others.",
		},
		[]string{"cut", "level"},
	)

	cutBestScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "exuma_cuts",
			Name:      "cut_best_transit_score",
			Help:      "Best transit window score over the planning horizon for each cut.",
		},
		[]string{"cut"},
	)
)

var levels = []models.SafetyLevel{models.SafetySafe, models.SafetyCaution, models.SafetyHazardous}

// Register attaches exuma-cuts collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		fetchesTotal,
		fetchDurationSeconds,
		cacheLookupsTotal,
		dataAgeSeconds,
		cutSafety,
		cutBestScore,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveFetch records one upstream fetch
func ObserveFetch(source string, duration time.Duration, outcome string) {
	switch outcome {
	case OutcomeSuccess, OutcomeDiscarded:
	default:
		outcome = OutcomeError
	}
	fetchesTotal.WithLabelValues(source, outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	fetchDurationSeconds.WithLabelValues(source).Observe(duration.Seconds())
}

// ObserveCache records a cache read result
func ObserveCache(source, result string) {
	cacheLookupsTotal.WithLabelValues(source, result).Inc()
}

// ObserveDataAge records how old the held data for source is at now
func ObserveDataAge(source string, fetchedAt, now time.Time) {
	dataAgeSeconds.WithLabelValues(source).Set(now.Sub(fetchedAt).Seconds())
}

// ObserveStatuses publishes the safety level of every cut
func ObserveStatuses(statuses []models.CutStatus) {
	for _, s := range statuses {
		for _, level := range levels {
			v := 0.0
			if s.SafetyLevel == level {
				v = 1
			}
			cutSafety.WithLabelValues(s.Cut.ID, string(level)).Set(v)
		}
	}
}

// ObservePlan publishes the best score of a transit plan
func ObservePlan(plan models.TransitPlan) {
	score := 0.0
	if plan.OverallBest != nil {
		score = float64(plan.OverallBest.Score)
	}
	cutBestScore.WithLabelValues(plan.Cut.ID).Set(score)
}
