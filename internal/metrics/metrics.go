// Package metrics exposes Prometheus counters/gauges for the pool, cache,
// and replenishment queue, additive instrumentation alongside the JSON
// /cache-stats endpoint. Wired from the prometheus/client_golang dependency
// present in the corpus (other_examples' whatdj).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jukectl_cache_hits_total",
		Help: "Number of pool cache hits.",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jukectl_cache_misses_total",
		Help: "Number of pool cache misses.",
	})

	queueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "jukectl_replenishment_queue_length",
		Help: "Current number of seeds remaining in the replenishment queue.",
	})

	poolInUse = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "jukectl_pool_in_use",
		Help: "Number of daemon connections currently checked out.",
	})

	poolTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "jukectl_pool_total",
		Help: "Total number of daemon connections tracked by the pool.",
	})

	schedulerTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jukectl_scheduler_ticks_total",
		Help: "Number of completed scheduler ticks.",
	})
)

// IncCacheHit records a single pool cache hit.
func IncCacheHit() { cacheHits.Inc() }

// IncCacheMiss records a single pool cache miss.
func IncCacheMiss() { cacheMisses.Inc() }

// SetQueueLength records the replenishment queue's current seed count.
func SetQueueLength(n int) { queueLength.Set(float64(n)) }

// SetPoolStats records the connection pool's current occupancy.
func SetPoolStats(inUse, total int) {
	poolInUse.Set(float64(inUse))
	poolTotal.Set(float64(total))
}

// IncSchedulerTick records one completed scheduler tick.
func IncSchedulerTick() { schedulerTicks.Inc() }
