package daemon

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dancemore/jukectl/internal/jukeerr"
	"github.com/dancemore/jukectl/internal/song"
)

// Mock is an in-memory Client used throughout this codebase's tests in
// place of a real daemon, per spec §8's "mock the daemon with in-memory
// playlists" harness. Safe for concurrent use.
type Mock struct {
	mu        sync.Mutex
	Playlists map[string][]song.Song
	queue     []song.Song
	Dead      bool // when true, every operation except Reconnect and Close returns ErrTransport; Reconnect clears it
	played    bool
}

// NewMock builds a Mock with the given stored playlists. The queue starts
// empty.
func NewMock(playlists map[string][]song.Song) *Mock {
	if playlists == nil {
		playlists = map[string][]song.Song{}
	}
	return &Mock{Playlists: playlists}
}

func (m *Mock) transportErr() error {
	return fmt.Errorf("%w: mock daemon unreachable", jukeerr.ErrTransport)
}

func (m *Mock) Playlist(name string) ([]song.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Dead {
		return nil, m.transportErr()
	}
	songs, ok := m.Playlists[name]
	if !ok {
		return nil, fmt.Errorf("%w: playlist %q", jukeerr.ErrNotFound, name)
	}
	out := make([]song.Song, len(songs))
	copy(out, songs)
	return out, nil
}

func (m *Mock) Search(tag, value string) ([]song.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Dead {
		return nil, m.transportErr()
	}
	var out []song.Song
	seen := map[string]bool{}
	for _, songs := range m.Playlists {
		for _, s := range songs {
			if seen[s.ID()] {
				continue
			}
			// MPD's search tag names are case-insensitive, unlike
			// song.Song.Tag's exact-match lookup.
			for _, t := range s.Tags {
				if strings.EqualFold(t.Key, tag) && t.Value == value {
					out = append(out, s)
					seen[s.ID()] = true
					break
				}
			}
		}
	}
	return out, nil
}

func (m *Mock) Queue() ([]song.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Dead {
		return nil, m.transportErr()
	}
	out := make([]song.Song, len(m.queue))
	copy(out, m.queue)
	return out, nil
}

func (m *Mock) Push(s song.Song) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Dead {
		return m.transportErr()
	}
	m.queue = append(m.queue, s)
	return nil
}

func (m *Mock) Delete(position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Dead {
		return m.transportErr()
	}
	if position < 0 || position >= len(m.queue) {
		return fmt.Errorf("%w: queue position %d", jukeerr.ErrInvariant, position)
	}
	m.queue = append(m.queue[:position], m.queue[position+1:]...)
	return nil
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Dead {
		return m.transportErr()
	}
	m.played = true
	return nil
}

func (m *Mock) PlaylistAppend(name string, s song.Song) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Dead {
		return m.transportErr()
	}
	m.Playlists[name] = append(m.Playlists[name], s)
	return nil
}

func (m *Mock) PlaylistRemoveAt(name string, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Dead {
		return m.transportErr()
	}
	songs, ok := m.Playlists[name]
	if !ok {
		return fmt.Errorf("%w: playlist %q", jukeerr.ErrNotFound, name)
	}
	if position < 0 || position >= len(songs) {
		return fmt.Errorf("%w: playlist position %d", jukeerr.ErrInvariant, position)
	}
	m.Playlists[name] = append(songs[:position], songs[position+1:]...)
	return nil
}

func (m *Mock) Ping() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Dead {
		return m.transportErr()
	}
	return nil
}

func (m *Mock) Reconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dead = false
	return nil
}

func (m *Mock) Close() error {
	return nil
}

// SetQueue lets tests seed the daemon's live play queue directly.
func (m *Mock) SetQueue(songs []song.Song) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = songs
}
