// Package cache implements the Pool Cache (C5): TTL + tag-hash keyed
// memoization of the Tag Filter's allowed-song set, kept as a mutex-guarded
// struct with a single live entry (grounded on the teacher's
// internal/playlist/library.go TrackLibrary).
package cache

import (
	"sync"
	"time"

	"github.com/dancemore/jukectl/internal/daemon"
	"github.com/dancemore/jukectl/internal/filter"
	"github.com/dancemore/jukectl/internal/metrics"
	"github.com/dancemore/jukectl/internal/song"
)

// DefaultTTL is the default cache lifetime, per spec §3.
const DefaultTTL = 600 * time.Second

// entry is the single live CacheEntry, if any.
type entry struct {
	songs       song.Set
	timestamp   time.Time
	fingerprint uint64
}

// PoolCache memoizes the result of TagFilter.Compute. At most one live entry
// exists per process.
type PoolCache struct {
	mu  sync.RWMutex
	cur *entry
	ttl time.Duration

	hits   int64
	misses int64
}

// New constructs a PoolCache with the given TTL. A zero or negative ttl
// falls back to DefaultTTL.
func New(ttl time.Duration) *PoolCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PoolCache{ttl: ttl}
}

func (c *PoolCache) validLocked(fp uint64) bool {
	return c.cur != nil &&
		c.cur.fingerprint == fp &&
		time.Since(c.cur.timestamp) < c.ttl
}

// GetOrCompute returns the allowed set for f, computing and caching it if
// the current entry is missing, stale, or keyed to a different fingerprint.
func (c *PoolCache) GetOrCompute(f *filter.TagFilter, client daemon.Client) (song.Set, error) {
	fp := f.Fingerprint()

	c.mu.Lock()
	if c.validLocked(fp) {
		c.hits++
		snapshot := cloneSet(c.cur.songs)
		c.mu.Unlock()
		metrics.IncCacheHit()
		return snapshot, nil
	}
	c.misses++
	c.mu.Unlock()
	metrics.IncCacheMiss()

	songs, err := f.Compute(client)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cur = &entry{songs: songs, timestamp: time.Now(), fingerprint: fp}
	c.mu.Unlock()

	return cloneSet(songs), nil
}

func cloneSet(s song.Set) song.Set {
	out := make(song.Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Invalidate drops the current entry unconditionally. Must be called by any
// handler that mutates the filter's any/not lists.
func (c *PoolCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = nil
}

// HasValid reports whether the current entry is still valid for f, without
// mutating hit/miss counters. Used by observability endpoints.
func (c *PoolCache) HasValid(f *filter.TagFilter) bool {
	fp := f.Fingerprint()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.validLocked(fp)
}

// Stats reports hit/miss counters and the derived hit rate as a percentage,
// defined as 0 when hits+misses == 0.
type Stats struct {
	Hits    int64
	Misses  int64
	HitRate float64
}

func (c *PoolCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := c.hits + c.misses
	var rate float64
	if total > 0 {
		rate = float64(c.hits) / float64(total) * 100
	}
	return Stats{Hits: c.hits, Misses: c.misses, HitRate: rate}
}
