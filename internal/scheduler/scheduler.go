// Package scheduler implements the Scheduler (C7): a periodic loop that
// keeps the daemon's play queue topped up, refills the replenishment queue
// when empty, and requests background cache precompute when low. Adapted
// from internal/playlist/scheduler.go's ticker-loop shape (Start(ctx),
// Running(), slog call sites) generalized from time-tag transitions to
// queue-depth maintenance.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dancemore/jukectl/internal/metrics"
	"github.com/dancemore/jukectl/internal/state"
)

// TickInterval is the scheduler's period, per spec §4.6.
const TickInterval = 3 * time.Second

// PrecomputeInterval is the background precompute task's period.
const PrecomputeInterval = 30 * time.Second

// LowWaterMark is the replenishment-queue length below which a background
// cache precompute is requested.
const LowWaterMark = 50

// TargetQueueDepth is the minimum daemon queue length the scheduler tries
// to maintain (one playing, one on-deck).
const TargetQueueDepth = 2

// statsLogEvery controls how often (in ticks) a cache-stats log line is
// emitted.
const statsLogEvery = 100

// Scheduler owns the main tick loop and the optional background precompute
// loop described in spec §4.6.
type Scheduler struct {
	state *state.Shared

	mu                  sync.Mutex
	running             bool
	precomputeRequested bool
	tickCount           int64
}

// New constructs a Scheduler over the given shared state.
func New(s *state.Shared) *Scheduler {
	return &Scheduler{state: s}
}

// Running reports whether the main tick loop is currently active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start runs the main tick loop. It blocks until ctx is cancelled. The
// scheduler loop is never cancelled except at process shutdown (spec §5).
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	slog.Info("scheduler started", "interval", TickInterval)

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// StartPrecompute runs the background precompute loop. It blocks until ctx
// is cancelled.
func (s *Scheduler) StartPrecompute(ctx context.Context) {
	slog.Info("precompute loop started", "interval", PrecomputeInterval)
	ticker := time.NewTicker(PrecomputeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.precomputeTick(ctx)
		}
	}
}

// tick performs one scheduler iteration per spec §4.6.
func (s *Scheduler) tick(ctx context.Context) {
	lease, err := s.state.Pool.Checkout(ctx)
	if err != nil {
		slog.Error("scheduler: checkout failed, skipping tick", "error", err)
		return
	}
	defer lease.Release()
	client := lease.Client

	// Lock ordering: queue, then filter, then mode. In this codebase each
	// of those is the respective component's own mutex, touched in this
	// order and never held across the next one's acquisition.
	if s.state.Queue.Len() == 0 {
		if err := s.state.Queue.Refill(s.state.Filter, client); err != nil {
			slog.Error("scheduler: refill failed", "error", err)
		}
	}

	daemonQueue, err := client.Queue()
	if err != nil {
		slog.Error("scheduler: could not read daemon queue length", "error", err)
	} else if len(daemonQueue) < TargetQueueDepth {
		songs, err := s.state.Queue.Dequeue(client)
		if err != nil {
			slog.Error("scheduler: dequeue failed", "error", err)
		} else if len(songs) > 0 {
			for _, song := range songs {
				if err := client.Push(song); err != nil {
					slog.Error("scheduler: push failed", "file", song.File, "error", err)
				}
			}
			if err := client.Play(); err != nil {
				slog.Error("scheduler: play failed", "error", err)
			}
		}
	}

	if s.state.Queue.Len() < LowWaterMark {
		s.mu.Lock()
		s.precomputeRequested = true
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.tickCount++
	count := s.tickCount
	s.mu.Unlock()

	metrics.IncSchedulerTick()
	metrics.SetQueueLength(s.state.Queue.Len())
	poolStats := s.state.Pool.Stats()
	metrics.SetPoolStats(poolStats.InUse, poolStats.Total)

	if count%statsLogEvery == 0 {
		stats := s.state.Queue.Stats()
		slog.Info("cache stats",
			"hits", stats.Hits,
			"misses", stats.Misses,
			"hit_rate", stats.HitRate,
			"queue_len", s.state.Queue.Len(),
		)
	}
}

// precomputeTick performs one background precompute iteration: if a
// precompute was requested, or the cache entry is stale/missing, recompute
// it so the next refill is a cache hit. It never touches the queue's
// contents.
func (s *Scheduler) precomputeTick(ctx context.Context) {
	s.mu.Lock()
	requested := s.precomputeRequested
	s.mu.Unlock()

	stale := !s.state.Cache.HasValid(s.state.Filter)
	if !requested && !stale {
		return
	}

	lease, err := s.state.Pool.Checkout(ctx)
	if err != nil {
		slog.Error("precompute: checkout failed", "error", err)
		return
	}
	defer lease.Release()

	if _, err := s.state.Cache.GetOrCompute(s.state.Filter, lease.Client); err != nil {
		slog.Error("precompute: GetOrCompute failed", "error", err)
		return
	}

	s.mu.Lock()
	s.precomputeRequested = false
	s.mu.Unlock()
}
