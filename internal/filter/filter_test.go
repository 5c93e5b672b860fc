package filter

import (
	"testing"

	"github.com/dancemore/jukectl/internal/daemon"
	"github.com/dancemore/jukectl/internal/song"
)

func TestDefault(t *testing.T) {
	f := Default()
	if got := f.Any(); len(got) != 1 || got[0] != "jukebox" {
		t.Fatalf("Any() = %v, want [jukebox]", got)
	}
	if got := f.Not(); len(got) != 1 || got[0] != "explicit" {
		t.Fatalf("Not() = %v, want [explicit]", got)
	}
}

func TestSetAnyNormalizes(t *testing.T) {
	f := Default()
	f.SetAny([]string{" rock , metal", "", "jazz"})
	got := f.Any()
	want := []string{"rock", "metal", "jazz"}
	if len(got) != len(want) {
		t.Fatalf("Any() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Any()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFingerprintStableAndOrderSensitive(t *testing.T) {
	f1 := Default()
	f2 := Default()
	if f1.Fingerprint() != f2.Fingerprint() {
		t.Fatalf("two default filters should fingerprint equal")
	}

	f3 := &TagFilter{}
	f3.SetAny([]string{"a", "b"})
	f4 := &TagFilter{}
	f4.SetAny([]string{"b", "a"})
	if f3.Fingerprint() == f4.Fingerprint() {
		t.Fatalf("reordered any-lists should fingerprint differently (spec open question)")
	}
}

func TestComputeUnionMinusDifference(t *testing.T) {
	a := song.Song{File: "a.mp3"}
	b := song.Song{File: "b.mp3"}
	c := song.Song{File: "c.mp3"}

	client := daemon.NewMock(map[string][]song.Song{
		"jukebox":  {a, b, c},
		"explicit": {b},
	})

	f := Default()
	set, err := f.Compute(client)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("Compute() len = %d, want 2", set.Len())
	}
	if _, ok := set["b.mp3"]; ok {
		t.Fatalf("b.mp3 should have been excluded by the not-list")
	}
}

func TestComputeIgnoresMissingTagPlaylist(t *testing.T) {
	client := daemon.NewMock(map[string][]song.Song{
		"jukebox": {{File: "a.mp3"}},
	})

	f := &TagFilter{}
	f.SetAny([]string{"jukebox", "does-not-exist"})

	set, err := f.Compute(client)
	if err != nil {
		t.Fatalf("Compute() should tolerate a missing tag playlist, got error: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("Compute() len = %d, want 1", set.Len())
	}
}

func TestComputeSurfacesTransportError(t *testing.T) {
	client := daemon.NewMock(nil)
	client.Dead = true

	f := Default()
	if _, err := f.Compute(client); err == nil {
		t.Fatalf("Compute() should surface a transport error from a dead daemon")
	}
}
