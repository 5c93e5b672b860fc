package cache

import (
	"testing"
	"time"

	"github.com/dancemore/jukectl/internal/daemon"
	"github.com/dancemore/jukectl/internal/filter"
	"github.com/dancemore/jukectl/internal/song"
)

func TestGetOrComputeHitsAndMisses(t *testing.T) {
	client := daemon.NewMock(map[string][]song.Song{
		"jukebox": {{File: "a.mp3"}, {File: "b.mp3"}},
	})
	f := Default(t)
	c := New(DefaultTTL)

	set, err := c.GetOrCompute(f, client)
	if err != nil {
		t.Fatalf("GetOrCompute() error: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("GetOrCompute() len = %d, want 2", set.Len())
	}

	if _, err := c.GetOrCompute(f, client); err != nil {
		t.Fatalf("second GetOrCompute() error: %v", err)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("Stats() = %+v, want 1 hit and 1 miss", stats)
	}
}

func TestGetOrComputeMissOnExpiry(t *testing.T) {
	client := daemon.NewMock(map[string][]song.Song{
		"jukebox": {{File: "a.mp3"}},
	})
	f := Default(t)
	c := New(1 * time.Nanosecond)

	if _, err := c.GetOrCompute(f, client); err != nil {
		t.Fatalf("GetOrCompute() error: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, err := c.GetOrCompute(f, client); err != nil {
		t.Fatalf("GetOrCompute() error: %v", err)
	}

	stats := c.Stats()
	if stats.Misses != 2 {
		t.Fatalf("Stats().Misses = %d, want 2 (TTL expired)", stats.Misses)
	}
}

func TestInvalidateForcesMiss(t *testing.T) {
	client := daemon.NewMock(map[string][]song.Song{
		"jukebox": {{File: "a.mp3"}},
	})
	f := Default(t)
	c := New(DefaultTTL)

	if _, err := c.GetOrCompute(f, client); err != nil {
		t.Fatalf("GetOrCompute() error: %v", err)
	}
	c.Invalidate()
	if c.HasValid(f) {
		t.Fatalf("HasValid() should be false right after Invalidate()")
	}
	if _, err := c.GetOrCompute(f, client); err != nil {
		t.Fatalf("GetOrCompute() error: %v", err)
	}
	if c.Stats().Misses != 2 {
		t.Fatalf("Stats().Misses = %d, want 2", c.Stats().Misses)
	}
}

func TestStatsHitRateZeroDenominator(t *testing.T) {
	c := New(DefaultTTL)
	if rate := c.Stats().HitRate; rate != 0 {
		t.Fatalf("HitRate on an untouched cache = %v, want 0", rate)
	}
}

// Default builds a TagFilter seeded with a single "jukebox" any-tag, for
// tests that don't care about the boot defaults' not-list.
func Default(t *testing.T) *filter.TagFilter {
	t.Helper()
	f := &filter.TagFilter{}
	f.SetAny([]string{"jukebox"})
	return f
}
