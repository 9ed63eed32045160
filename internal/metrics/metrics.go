package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	DeckCompiles    *prometheus.CounterVec
	CompileDuration prometheus.Histogram
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	SlidesPerDeck   prometheus.Histogram
	SegmentRequests *prometheus.CounterVec
	BuildJobs       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DeckCompiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slidedeck_deck_compiles_total",
			Help: "Deck compilations by outcome.",
		}, []string{"result"}),
		CompileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "slidedeck_deck_compile_seconds",
			Help:    "Time spent parsing, resolving and segmenting one deck.",
			Buckets: prometheus.DefBuckets,
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slidedeck_deck_cache_hits_total",
			Help: "Compiled deck lookups served from cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slidedeck_deck_cache_misses_total",
			Help: "Compiled deck lookups that required a compile.",
		}),
		SlidesPerDeck: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "slidedeck_slides_per_deck",
			Help:    "Number of slides produced per compiled deck.",
			Buckets: []float64{1, 5, 10, 20, 40, 80, 160},
		}),
		SegmentRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slidedeck_segment_requests_total",
			Help: "Ad-hoc segment requests by input format.",
		}, []string{"format"}),
		BuildJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slidedeck_build_jobs_total",
			Help: "Finished build jobs by final status.",
		}, []string{"status"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.DeckCompiles,
			m.CompileDuration,
			m.CacheHits,
			m.CacheMisses,
			m.SlidesPerDeck,
			m.SegmentRequests,
			m.BuildJobs,
		)
	}
	return m
}
