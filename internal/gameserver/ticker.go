package gameserver

import (
	"context"
	"sync"
	"time"
)

// MatchTicker drives registered step callbacks at a fixed interval. Each
// callback receives the tick's wall-clock time; callbacks run sequentially
// on the ticker goroutine, which is what gives the simulation its
// single-goroutine ownership guarantee.
//
// Invariant: all callbacks are invoked at most once per tick interval.
type MatchTicker struct {
	interval time.Duration
	mu       sync.Mutex
	steps    map[string]func(now time.Time)
}

// NewMatchTicker returns a ticker that fires every interval.
//
// Precondition: interval must be > 0.
func NewMatchTicker(interval time.Duration) *MatchTicker {
	if interval <= 0 {
		panic("gameserver.NewMatchTicker: interval must be > 0")
	}
	return &MatchTicker{
		interval: interval,
		steps:    make(map[string]func(now time.Time)),
	}
}

// RegisterStep registers a callback under id, replacing any existing one.
func (m *MatchTicker) RegisterStep(id string, fn func(now time.Time)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps[id] = fn
}

// Unregister removes the callback registered under id.
func (m *MatchTicker) Unregister(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.steps, id)
}

// Start begins the tick loop. Runs until ctx is cancelled.
//
// Postcondition: all registered callbacks are invoked once per interval.
func (m *MatchTicker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				m.mu.Lock()
				callbacks := make([]func(now time.Time), 0, len(m.steps))
				for _, fn := range m.steps {
					callbacks = append(callbacks, fn)
				}
				m.mu.Unlock()
				for _, fn := range callbacks {
					fn(now)
				}
			}
		}
	}()
}
