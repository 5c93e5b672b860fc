// Package queue implements the Replenishment Queue (C6): a shuffled FIFO
// drawn from the pool cache's allowed set, with single-track and
// whole-album dequeue modes. Album-expansion-at-dequeue-time is grounded on
// original_source/server/src/models/song_queue.rs, which is where the
// "supersedes pre-expansion" redesign (spec §9) actually lives.
package queue

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/dancemore/jukectl/internal/cache"
	"github.com/dancemore/jukectl/internal/daemon"
	"github.com/dancemore/jukectl/internal/filter"
	"github.com/dancemore/jukectl/internal/jukeerr"
	"github.com/dancemore/jukectl/internal/song"
)

// unknownAlbum is the fallback album name used when a seed song has no
// Album tag, per spec §4.5.
const unknownAlbum = "Unknown Album"

// ReplenishmentQueue is an ordered, shuffled sequence of songs drawn from
// the cached allowed set. Mode transitions never discard the queue; they
// only change dequeue behavior.
type ReplenishmentQueue struct {
	mu         sync.Mutex
	inner      []song.Song
	albumAware bool
	cache      *cache.PoolCache
}

// New constructs an empty ReplenishmentQueue backed by the given cache.
func New(c *cache.PoolCache) *ReplenishmentQueue {
	return &ReplenishmentQueue{cache: c}
}

// SetMode updates the album-aware dequeue mode. It does not invalidate the
// cache or alter the queue's contents (spec §9: mode never touches the
// pool, since album expansion happens at dequeue time, not refill time).
func (q *ReplenishmentQueue) SetMode(albumAware bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.albumAware = albumAware
}

// AlbumAware reports the current dequeue mode.
func (q *ReplenishmentQueue) AlbumAware() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.albumAware
}

// Refill replaces the queue's contents with a uniform random permutation of
// the filter's current allowed set (via the cache), and logs the new size
// and how long the refill took.
func (q *ReplenishmentQueue) Refill(f *filter.TagFilter, client daemon.Client) error {
	start := time.Now()
	songs, err := q.cache.GetOrCompute(f, client)
	if err != nil {
		return err
	}

	shuffled := songs.Slice()
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	q.mu.Lock()
	q.inner = shuffled
	q.mu.Unlock()

	slog.Info("replenishment queue refilled", "size", len(shuffled), "duration", time.Since(start))
	return nil
}

// Len returns the number of seeds remaining in the queue. In album mode this
// is the count of seeds, not the count of songs an eventual expansion would
// produce.
func (q *ReplenishmentQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.inner)
}

// Head returns a non-mutating snapshot of up to n songs from the front of
// the queue.
func (q *ReplenishmentQueue) Head(n int) []song.Song {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n > len(q.inner) {
		n = len(q.inner)
	}
	out := make([]song.Song, n)
	copy(out, q.inner[:n])
	return out
}

// Tail returns a non-mutating snapshot of up to n songs from the back of
// the queue.
func (q *ReplenishmentQueue) Tail(n int) []song.Song {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n > len(q.inner) {
		n = len(q.inner)
	}
	out := make([]song.Song, n)
	copy(out, q.inner[len(q.inner)-n:])
	return out
}

// Dequeue pops the next seed and, depending on mode, returns it alone
// (regular mode) or expands it into its full album in track order (album
// mode). Returns an empty slice if the queue is empty.
func (q *ReplenishmentQueue) Dequeue(client daemon.Client) ([]song.Song, error) {
	q.mu.Lock()
	if len(q.inner) == 0 {
		q.mu.Unlock()
		return nil, nil
	}
	seed := q.inner[0]
	q.inner = q.inner[1:]
	albumAware := q.albumAware
	q.mu.Unlock()

	if !albumAware {
		return []song.Song{seed}, nil
	}

	album, ok := seed.Tag("Album")
	if !ok || album == "" {
		album = unknownAlbum
	}

	results, err := client.Search("album", album)
	if err != nil {
		if errors.Is(err, jukeerr.ErrTransport) {
			slog.Warn("album search failed, falling back to seed only", "album", album, "error", err)
			return []song.Song{seed}, nil
		}
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return trackNumber(results[i]) < trackNumber(results[j])
	})
	return results, nil
}

// trackNumber parses a song's Track tag as an unsigned integer. Missing or
// unparseable values sort as 0, per spec §4.5.
func trackNumber(s song.Song) uint64 {
	v, ok := s.Tag("Track")
	if !ok {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Stats reports the backing cache's hit/miss counters and derived hit rate.
func (q *ReplenishmentQueue) Stats() cache.Stats {
	return q.cache.Stats()
}
