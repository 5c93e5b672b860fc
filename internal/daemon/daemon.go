// Package daemon defines the Client interface the rest of the jukebox
// engine uses to talk to an external MPD-class player daemon (C1), plus a
// gompd-backed implementation of it.
//
// Every operation except Close surfaces a typed error from internal/jukeerr
// (Close returns the underlying library's error as is); the client never
// retries internally. Reconnect is the only place a socket is
// proactively re-opened.
package daemon

import "github.com/dancemore/jukectl/internal/song"

// Client is a single connection (or reconnect-capable handle) to the player
// daemon. Implementations are not required to be safe for concurrent use by
// more than one goroutine at a time — the connection pool (internal/pool)
// is what provides the concurrency the rest of the system needs.
type Client interface {
	// Playlist fetches every song in a stored playlist. Returns
	// jukeerr.ErrNotFound if the playlist does not exist, jukeerr.ErrTransport
	// on I/O failure.
	Playlist(name string) ([]song.Song, error)

	// Search performs a library search for songs whose tag equals value.
	// Used only for tag == "album" in this codebase.
	Search(tag, value string) ([]song.Song, error)

	// Queue reads the daemon's active play queue; index 0 is now-playing.
	Queue() ([]song.Song, error)

	// Push appends a song to the daemon's play queue.
	Push(s song.Song) error

	// Delete removes the song at the given zero-based queue position.
	// Delete(0) is the canonical skip operation.
	Delete(position int) error

	// Play starts playback if the daemon is stopped; idempotent.
	Play() error

	// PlaylistAppend appends a song to a stored playlist.
	PlaylistAppend(name string, s song.Song) error

	// PlaylistRemoveAt removes the song at the given zero-based position
	// from a stored playlist.
	PlaylistRemoveAt(name string, position int) error

	// Ping validates the connection. Returns jukeerr.ErrTransport if dead.
	Ping() error

	// Reconnect re-establishes the connection. Idempotent: if Ping
	// succeeds, Reconnect returns without reopening anything.
	Reconnect() error

	// Close releases any resources held by the connection.
	Close() error
}

// Dialer constructs a new Client for a given host/port, used by the
// connection pool to create fresh connections. Separated from a concrete
// constructor function so the pool can be tested against a mock dialer.
type Dialer func(host, port string) (Client, error)
