// Package filter implements the Tag Filter (C4): the `any`/`not` tag lists
// and the union-minus-difference set algebra over playlist fetches that
// produces the allowed-song set.
package filter

import (
	"errors"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/dancemore/jukectl/internal/daemon"
	"github.com/dancemore/jukectl/internal/jukeerr"
	"github.com/dancemore/jukectl/internal/song"
)

// TagFilter holds the `any` and `not` tag-name lists. One instance lives per
// process; it is mutated only by tag-update requests and the boot defaults.
type TagFilter struct {
	mu  sync.RWMutex
	any []string
	not []string
}

// Default returns a TagFilter seeded with the boot defaults from spec §3:
// any = ["jukebox"], not = ["explicit"].
func Default() *TagFilter {
	return &TagFilter{any: []string{"jukebox"}, not: []string{"explicit"}}
}

// normalize splits every entry on ",", trims whitespace, and drops empty
// strings, per spec §4.3 step 1.
func normalize(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		for _, part := range strings.Split(e, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// SetAny replaces the `any` list, normalizing it first.
func (f *TagFilter) SetAny(any []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.any = normalize(any)
}

// SetNot replaces the `not` list, normalizing it first.
func (f *TagFilter) SetNot(not []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.not = normalize(not)
}

// Any returns a copy of the current `any` list.
func (f *TagFilter) Any() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.any))
	copy(out, f.any)
	return out
}

// Not returns a copy of the current `not` list.
func (f *TagFilter) Not() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.not))
	copy(out, f.not)
	return out
}

// Fingerprint returns a deterministic 64-bit hash over the ordered contents
// of `any` followed by `not`. List order matters: two filters with the same
// set content but different order hash unequal. This is a conservative,
// deliberate choice (spec §9) — it busts the cache unnecessarily on a mere
// reorder, but avoids guessing at a canonicalization rule the source never
// settled on.
func (f *TagFilter) Fingerprint() uint64 {
	any := f.Any()
	not := f.Not()

	h := fnv.New64a()
	for _, t := range any {
		h.Write([]byte(t))
		h.Write([]byte{0})
	}
	h.Write([]byte{0xff})
	for _, t := range not {
		h.Write([]byte(t))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// Compute evaluates the filter against the daemon: the union of `any`
// playlists minus the union of `not` playlists. A NotFound error for a
// single tag name is not fatal — it is treated as an empty contribution and
// iteration continues; any other error is surfaced immediately.
func (f *TagFilter) Compute(client daemon.Client) (song.Set, error) {
	any := f.Any()
	not := f.Not()

	working := song.Set{}
	for _, tag := range any {
		songs, err := client.Playlist(tag)
		if err != nil {
			if errors.Is(err, jukeerr.ErrNotFound) {
				continue
			}
			return nil, err
		}
		for _, s := range songs {
			working.Add(s)
		}
	}

	for _, tag := range not {
		songs, err := client.Playlist(tag)
		if err != nil {
			if errors.Is(err, jukeerr.ErrNotFound) {
				continue
			}
			return nil, err
		}
		for _, s := range songs {
			working.Remove(s)
		}
	}

	return working, nil
}
