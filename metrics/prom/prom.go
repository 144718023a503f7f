// Package prom exports cache.Metrics signals as Prometheus metrics.
package prom

import (
	"github.com/IvanBrykalov/segcache/cache"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter implements cache.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	removes   prometheus.Counter
	puts      *prometheus.CounterVec
	entries   prometheus.Gauge
	usedBytes prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: name, Help: help, ConstLabels: constLabels,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub, Name: name, Help: help, ConstLabels: constLabels,
		})
	}

	a := &Adapter{
		hits:    counter("hits_total", "Cache hits"),
		misses:  counter("misses_total", "Cache misses"),
		removes: counter("removes_total", "Entries removed by key, including capacity rejections of a present key"),
		puts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "puts_total",
				Help:        "Put attempts by outcome",
				ConstLabels: constLabels,
			},
			[]string{"outcome"},
		),
		entries:   gauge("resident_entries", "Number of resident entries"),
		usedBytes: gauge("resident_bytes", "Budget bytes charged to resident entries"),
	}
	reg.MustRegister(a.hits, a.misses, a.removes, a.puts, a.entries, a.usedBytes)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Remove increments the remove counter.
func (a *Adapter) Remove() { a.removes.Inc() }

// Put counts a put attempt under its outcome label.
func (a *Adapter) Put(o cache.PutOutcome) {
	a.puts.WithLabelValues(o.String()).Inc()
}

// Resident applies entry and byte deltas to the residency gauges.
func (a *Adapter) Resident(entries int, bytes int64) {
	if entries != 0 {
		a.entries.Add(float64(entries))
	}
	if bytes != 0 {
		a.usedBytes.Add(float64(bytes))
	}
}

var _ cache.Metrics = (*Adapter)(nil)
