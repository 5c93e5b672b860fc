package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/dancemore/jukectl/internal/daemon"
	"github.com/dancemore/jukectl/internal/pool"
	"github.com/dancemore/jukectl/internal/song"
	"github.com/dancemore/jukectl/internal/state"
)

// newTestState wires a scheduler's shared state over a single shared Mock,
// used as both the pool's one backing connection and the legacy connection,
// simulating separate sockets to the same daemon rather than separate
// daemons.
func newTestState(t *testing.T, playlists map[string][]song.Song) (*state.Shared, *daemon.Mock) {
	t.Helper()
	shared := daemon.NewMock(playlists)
	dial := func(host, port string) (daemon.Client, error) {
		return shared, nil
	}
	p, err := pool.New("localhost", "6600", 2, dial)
	if err != nil {
		t.Fatalf("pool.New() error: %v", err)
	}
	return state.New(p, shared), shared
}

func TestTickPushesOneSeedPerCycle(t *testing.T) {
	shared, legacy := newTestState(t, map[string][]song.Song{
		"jukebox": {{File: "a.mp3"}, {File: "b.mp3"}, {File: "c.mp3"}},
	})
	sched := New(shared)

	sched.tick(context.Background())

	queued, err := legacy.Queue()
	if err != nil {
		t.Fatalf("Queue() error: %v", err)
	}
	// One tick dequeues exactly one seed in regular mode; reaching
	// TargetQueueDepth takes multiple ticks below target.
	if len(queued) != 1 {
		t.Fatalf("after one tick, daemon queue len = %d, want 1", len(queued))
	}

	sched.tick(context.Background())
	queued, err = legacy.Queue()
	if err != nil {
		t.Fatalf("Queue() error: %v", err)
	}
	if len(queued) < TargetQueueDepth {
		t.Fatalf("after %d ticks, daemon queue len = %d, want at least %d", TargetQueueDepth, len(queued), TargetQueueDepth)
	}
}

func TestTickSkipsPushWhenAlreadyAtTarget(t *testing.T) {
	shared, legacy := newTestState(t, map[string][]song.Song{
		"jukebox": {{File: "a.mp3"}, {File: "b.mp3"}},
	})
	legacy.SetQueue([]song.Song{{File: "now.mp3"}, {File: "next.mp3"}})
	sched := New(shared)

	sched.tick(context.Background())

	queued, _ := legacy.Queue()
	if len(queued) != 2 {
		t.Fatalf("tick should not push when already at target depth, queue len = %d", len(queued))
	}
}

func TestStartStopsOnContextCancel(t *testing.T) {
	shared, _ := newTestState(t, map[string][]song.Song{
		"jukebox": {{File: "a.mp3"}},
	})
	sched := New(shared)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Start(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	if !sched.Running() {
		t.Fatalf("scheduler should report Running() while its loop is active")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Start() did not return after context cancellation")
	}
	if sched.Running() {
		t.Fatalf("scheduler should report Running() == false after shutdown")
	}
}
