package pool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dancemore/jukectl/internal/daemon"
	"github.com/dancemore/jukectl/internal/song"
)

func dialMock(host, port string) (daemon.Client, error) {
	return daemon.NewMock(nil), nil
}

// unreconnectableClient is a daemon.Client stand-in that is always dead, for
// testing the pool's discard-on-dead-return path: unlike daemon.Mock, its
// Reconnect never heals it.
type unreconnectableClient struct{}

func (unreconnectableClient) Playlist(string) ([]song.Song, error)        { return nil, errDead }
func (unreconnectableClient) Search(string, string) ([]song.Song, error)  { return nil, errDead }
func (unreconnectableClient) Queue() ([]song.Song, error)                 { return nil, errDead }
func (unreconnectableClient) Push(song.Song) error                        { return errDead }
func (unreconnectableClient) Delete(int) error                            { return errDead }
func (unreconnectableClient) Play() error                                 { return errDead }
func (unreconnectableClient) PlaylistAppend(string, song.Song) error      { return errDead }
func (unreconnectableClient) PlaylistRemoveAt(string, int) error          { return errDead }
func (unreconnectableClient) Ping() error                                 { return errDead }
func (unreconnectableClient) Reconnect() error                            { return errDead }
func (unreconnectableClient) Close() error                                { return nil }

var errDead = errors.New("permanently dead")

func TestNewWarmsConnections(t *testing.T) {
	p, err := New("localhost", "6600", 4, dialMock)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stats := p.Stats()
	if stats.Total < 1 {
		t.Fatalf("Stats().Total = %d, want at least 1 warmed connection", stats.Total)
	}
	if stats.Max != 4 {
		t.Fatalf("Stats().Max = %d, want 4", stats.Max)
	}
}

func TestCheckoutReleaseRoundTrip(t *testing.T) {
	p, err := New("localhost", "6600", 2, dialMock)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	lease, err := p.Checkout(context.Background())
	if err != nil {
		t.Fatalf("Checkout() error: %v", err)
	}
	if stats := p.Stats(); stats.InUse != 1 {
		t.Fatalf("Stats().InUse = %d, want 1 after checkout", stats.InUse)
	}

	lease.Release()
	if stats := p.Stats(); stats.InUse != 0 {
		t.Fatalf("Stats().InUse = %d, want 0 after release", stats.InUse)
	}
}

func TestCheckoutCapEnforced(t *testing.T) {
	p, err := New("localhost", "6600", 1, dialMock)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	lease, err := p.Checkout(context.Background())
	if err != nil {
		t.Fatalf("Checkout() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := p.Checkout(ctx); err == nil {
		t.Fatalf("second Checkout() on a saturated pool of Max=1 should block until ctx deadline and then error")
	}

	lease.Release()
}

func TestReleaseDiscardsDeadConnection(t *testing.T) {
	dialDead := func(host, port string) (daemon.Client, error) {
		return unreconnectableClient{}, nil
	}
	p, err := New("localhost", "6600", 2, dialDead)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	lease, err := p.Checkout(context.Background())
	if err != nil {
		t.Fatalf("Checkout() error: %v", err)
	}

	before := p.Stats().Total
	lease.Release()
	after := p.Stats().Total
	if after != before-1 {
		t.Fatalf("Stats().Total after releasing an unhealable connection = %d, want %d", after, before-1)
	}
}
