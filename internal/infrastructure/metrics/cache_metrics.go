// Package metrics exports LRU cache events to Prometheus.
package metrics

import (
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/ports"
	"github.com/prometheus/client_golang/prometheus"
)

var _ ports.CacheMetrics = (*CacheMetrics)(nil)

type CacheMetrics struct {
	hits        prometheus.Counter
	misses      prometheus.Counter
	evictions   prometheus.Counter
	storeErrors *prometheus.CounterVec
	size        prometheus.Gauge
}

// NewCacheMetrics registers the cache collectors on reg.
func NewCacheMetrics(reg prometheus.Registerer, namespace string) (*CacheMetrics, error) {
	labels := prometheus.Labels{"namespace": namespace}
	m := &CacheMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "lru_cache_hits_total",
			Help:        "Lookups answered from the LRU cache",
			ConstLabels: labels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "lru_cache_misses_total",
			Help:        "Lookups not found in the LRU cache",
			ConstLabels: labels,
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "lru_cache_evictions_total",
			Help:        "Entries evicted to stay within capacity",
			ConstLabels: labels,
		}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "lru_cache_store_errors_total",
			Help:        "Backing store failures by operation",
			ConstLabels: labels,
		}, []string{"op"}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "lru_cache_entries",
			Help:        "Entries currently held by the LRU cache",
			ConstLabels: labels,
		}),
	}
	for _, c := range []prometheus.Collector{m.hits, m.misses, m.evictions, m.storeErrors, m.size} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *CacheMetrics) Hit()                 { m.hits.Inc() }
func (m *CacheMetrics) Miss()                { m.misses.Inc() }
func (m *CacheMetrics) Evicted(n int)        { m.evictions.Add(float64(n)) }
func (m *CacheMetrics) StoreError(op string) { m.storeErrors.WithLabelValues(op).Inc() }
func (m *CacheMetrics) Size(n int64)         { m.size.Set(float64(n)) }
