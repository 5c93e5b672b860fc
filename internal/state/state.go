// Package state defines SharedState (C9): the container of references to
// the pool, filter, cache, and replenishment queue that both HTTP handlers
// and the scheduler's tick operate on, plus the lock-ordering discipline
// from spec §5.
//
// Each wrapped component owns its own lock rather than being wrapped in an
// external lock here: TagFilter and PoolCache each have a sync.RWMutex,
// ReplenishmentQueue has a sync.Mutex that also guards its album-aware flag,
// and Pool has a sync.Mutex over its idle list and counters. Spec's L_queue
// and L_mode both map onto the queue's mutex and L_filter onto the filter's;
// the pool cache's entry sits behind its own, separate mutex. No code path
// in this repository holds two of these locks at once or holds one across a
// daemon call: each accessor takes its lock, does its read or write, and
// releases before the next resource is touched, so the ordering rule
// queue -> filter -> mode holds trivially. As a consequence, a filter
// mutation and the cache invalidation that follows it (POST /tags) are two
// separate steps rather than one step under a single lock.
package state

import (
	"github.com/dancemore/jukectl/internal/cache"
	"github.com/dancemore/jukectl/internal/daemon"
	"github.com/dancemore/jukectl/internal/filter"
	"github.com/dancemore/jukectl/internal/pool"
	"github.com/dancemore/jukectl/internal/queue"
)

// Shared holds every piece of state the HTTP surface and the scheduler
// mutate. One instance lives per process.
type Shared struct {
	Pool   *pool.Pool
	Filter *filter.TagFilter
	Cache  *cache.PoolCache
	Queue  *queue.ReplenishmentQueue

	// Legacy is a single direct client used for operations on the daemon's
	// live queue (skip, status, song tagging) that don't need pool
	// parallelism, per spec §3.
	Legacy daemon.Client
}

// New wires up a fresh SharedState: a TagFilter seeded with boot defaults, a
// cache, a queue backed by that cache, and the given pool/legacy client.
func New(p *pool.Pool, legacy daemon.Client) *Shared {
	c := cache.New(cache.DefaultTTL)
	return &Shared{
		Pool:   p,
		Filter: filter.Default(),
		Cache:  c,
		Queue:  queue.New(c),
		Legacy: legacy,
	}
}
