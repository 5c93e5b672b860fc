// Package pool implements a bounded connection pool over daemon.Client
// (C2): eager warm-up, checkout/return with liveness validation, and a
// concurrency cap enforced by a semaphore. Grounded on the checkout /
// validate / discard-and-recreate algorithm in
// original_source/server/src/mpd_conn/mpd_pool.rs, expressed with the
// guarded-struct + slog idiom the rest of this codebase uses.
package pool

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dancemore/jukectl/internal/daemon"
	"github.com/dancemore/jukectl/internal/jukeerr"
)

// slot is one pooled connection plus its creation time, matching the
// ConnectionSlot shape from spec §3.
type slot struct {
	client    daemon.Client
	createdAt time.Time
}

// Pool is a bounded set of daemon.Client instances. Checkout blocks (honoring
// context cancellation) when the pool is saturated at Max. The external
// daemon's line protocol is per-connection-serialized, so callers that need
// parallelism (e.g. album expansion) must check out more than one client.
type Pool struct {
	Host string
	Port string
	Max  int
	dial daemon.Dialer

	sem chan struct{}

	mu    sync.Mutex
	idle  []*slot
	inUse int
	total int
}

// New constructs a Pool and eagerly warms max(1, max/4) connections. It
// fails only if the very first warm connection cannot be established.
func New(host, port string, max int, dial daemon.Dialer) (*Pool, error) {
	if max < 1 {
		max = 1
	}
	p := &Pool{
		Host: host,
		Port: port,
		Max:  max,
		dial: dial,
		sem:  make(chan struct{}, max),
	}

	warm := max / 4
	if warm < 1 {
		warm = 1
	}

	for i := 0; i < warm; i++ {
		c, err := dial(host, port)
		if err != nil {
			if i == 0 {
				return nil, fmt.Errorf("%w: warming first connection: %v", jukeerr.ErrTransport, err)
			}
			slog.Warn("pool: failed to warm connection", "index", i, "error", err)
			break
		}
		p.idle = append(p.idle, &slot{client: c, createdAt: time.Now()})
		p.total++
	}

	slog.Info("pool warmed", "host", host, "port", port, "max", max, "warmed", len(p.idle))
	return p, nil
}

// Lease holds a checked-out client and the permit/slot needed to return it.
type Lease struct {
	Client daemon.Client

	p    *Pool
	slot *slot
}

// Checkout acquires one permit from the pool's semaphore (blocking, honoring
// ctx cancellation), then returns a validated idle slot or creates a new
// one.
func (p *Pool) Checkout(ctx context.Context) (*Lease, error) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", jukeerr.ErrExhausted, ctx.Err())
	}

	s, err := p.acquireSlot()
	if err != nil {
		<-p.sem
		return nil, err
	}
	return &Lease{Client: s.client, p: p, slot: s}, nil
}

// acquireSlot pops an idle slot and validates it, discarding and replacing
// dead ones; if none are idle, it creates a fresh one and bumps the tracked
// total.
func (p *Pool) acquireSlot() (*slot, error) {
	p.mu.Lock()
	var s *slot
	if n := len(p.idle); n > 0 {
		s = p.idle[n-1]
		p.idle = p.idle[:n-1]
	}
	p.mu.Unlock()

	if s != nil {
		if err := validate(s.client); err != nil {
			slog.Warn("pool: discarding dead idle connection", "error", err)
			s.client.Close()
			p.mu.Lock()
			p.total--
			p.mu.Unlock()
			s = nil
		}
	}

	if s == nil {
		c, err := p.dial(p.Host, p.Port)
		if err != nil {
			return nil, fmt.Errorf("%w: creating connection: %v", jukeerr.ErrTransport, err)
		}
		s = &slot{client: c, createdAt: time.Now()}
		p.mu.Lock()
		p.total++
		p.mu.Unlock()
	}

	p.mu.Lock()
	p.inUse++
	p.mu.Unlock()
	return s, nil
}

func validate(c daemon.Client) error {
	if err := c.Ping(); err == nil {
		return nil
	}
	return c.Reconnect()
}

// Release returns the lease's slot to the pool, validating it once more; a
// dead slot is discarded and the tracked total decremented. The semaphore
// permit is always released, regardless of validation outcome.
func (l *Lease) Release() {
	p := l.p
	defer func() { <-p.sem }()

	p.mu.Lock()
	p.inUse--
	p.mu.Unlock()

	if err := validate(l.slot.client); err != nil {
		slog.Warn("pool: discarding dead connection on return", "error", err)
		l.slot.client.Close()
		p.mu.Lock()
		p.total--
		p.mu.Unlock()
		return
	}

	p.mu.Lock()
	p.idle = append(p.idle, l.slot)
	p.mu.Unlock()
}

// Stats reports the pool's current occupancy. Invariant:
// Available + InUse == Total <= Max.
type Stats struct {
	Available int
	InUse     int
	Total     int
	Max       int
}

func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Available: len(p.idle),
		InUse:     p.inUse,
		Total:     p.total,
		Max:       p.Max,
	}
}
