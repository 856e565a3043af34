package subclone

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are counters for the work done while subcloning. A nil *Metrics is valid and records nothing
type Metrics struct {
	BinsTotal         prometheus.Counter
	BinFailuresTotal  prometheus.Counter
	CyclesTotal       prometheus.Counter
	CombinationsTotal prometheus.Counter
	PlasmidsTotal     prometheus.Counter
	CacheHitsTotal    prometheus.Counter
	CacheMissesTotal  prometheus.Counter
	BinDuration       prometheus.Histogram
}

// NewMetrics creates the subclone metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BinsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "synbio_subclone_bins_total",
			Help: "Total number of bins of records subcloned.",
		}),
		BinFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "synbio_subclone_bin_failures_total",
			Help: "Total number of bins that failed, eg by exceeding a work budget.",
		}),
		CyclesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "synbio_subclone_cycles_total",
			Help: "Total number of overhang cycles enumerated.",
		}),
		CombinationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "synbio_subclone_combinations_total",
			Help: "Total number of fragment combinations checked.",
		}),
		PlasmidsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "synbio_subclone_plasmids_total",
			Help: "Total number of plasmids assembled.",
		}),
		CacheHitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "synbio_digest_cache_hits_total",
			Help: "Total number of digests served from the cache.",
		}),
		CacheMissesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "synbio_digest_cache_misses_total",
			Help: "Total number of records digested.",
		}),
		BinDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "synbio_subclone_bin_seconds",
			Help:    "Time spent subcloning a single bin.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) cacheHit() {
	if m != nil {
		m.CacheHitsTotal.Inc()
	}
}

func (m *Metrics) cacheMiss() {
	if m != nil {
		m.CacheMissesTotal.Inc()
	}
}

func (m *Metrics) cycle() {
	if m != nil {
		m.CyclesTotal.Inc()
	}
}

func (m *Metrics) combination() {
	if m != nil {
		m.CombinationsTotal.Inc()
	}
}

func (m *Metrics) plasmid() {
	if m != nil {
		m.PlasmidsTotal.Inc()
	}
}

// bin records a finished bin
func (m *Metrics) bin(start time.Time, err error) {
	if m == nil {
		return
	}
	m.BinsTotal.Inc()
	if err != nil {
		m.BinFailuresTotal.Inc()
	}
	m.BinDuration.Observe(time.Since(start).Seconds())
}
