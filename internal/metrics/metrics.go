// Package metrics exposes the Prometheus counters and histograms the
// storage engine updates on its hot paths, mirroring the counter-heavy
// observability style of the larger example services in the retrieval
// pack (graph query counters, request histograms) applied to an embedded
// engine's own operations.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles every collector the storage engine touches. A nil
// *Metrics is not valid; use New or NewWithRegisterer.
type Metrics struct {
	PutTotal      prometheus.Counter
	DeleteTotal   prometheus.Counter
	GetTotal      prometheus.Counter
	GetHits       prometheus.Counter
	GetMisses     prometheus.Counter
	ScanTotal     prometheus.Counter
	FlushTotal    prometheus.Counter
	FlushErrors   prometheus.Counter
	FlushDuration prometheus.Histogram
	L0Tables      prometheus.Gauge
}

// New registers collectors against prometheus.DefaultRegisterer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers collectors against reg, so tests and
// embedders that want an isolated registry don't collide with the global
// default.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PutTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lsmkv_put_total",
			Help: "Total number of Put calls.",
		}),
		DeleteTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lsmkv_delete_total",
			Help: "Total number of Delete calls.",
		}),
		GetTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lsmkv_get_total",
			Help: "Total number of Get calls.",
		}),
		GetHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lsmkv_get_hits_total",
			Help: "Get calls that found a live value.",
		}),
		GetMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lsmkv_get_misses_total",
			Help: "Get calls that found no live value (absent or tombstoned).",
		}),
		ScanTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lsmkv_scan_total",
			Help: "Total number of Scan calls.",
		}),
		FlushTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lsmkv_flush_total",
			Help: "Total number of memtable-to-SST flushes.",
		}),
		FlushErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lsmkv_flush_errors_total",
			Help: "Total number of flushes that failed.",
		}),
		FlushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lsmkv_flush_duration_seconds",
			Help:    "Wall-clock duration of a Sync flush.",
			Buckets: prometheus.DefBuckets,
		}),
		L0Tables: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lsmkv_l0_tables",
			Help: "Number of SSTables currently resident in L0.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.PutTotal, m.DeleteTotal, m.GetTotal, m.GetHits, m.GetMisses,
		m.ScanTotal, m.FlushTotal, m.FlushErrors, m.FlushDuration, m.L0Tables,
	} {
		// A registration error (e.g. the same names already registered by
		// a prior Open in the same process) is ignored. The new collector is
		// kept in m but stays unregistered, so its values are not exported.
		if err := reg.Register(c); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				_ = are
			}
		}
	}
	return m
}
