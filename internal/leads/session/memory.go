// internal/leads/session/memory.go
package session

import (
	"context"
	"sync"
	"time"

	"leadgen/internal/common/metrics"
	"leadgen/internal/leads/app"
)

type entry struct {
	mu      sync.Mutex
	snap    app.Snapshot
	expires time.Time
}

// MemoryStore keeps sessions in process memory. Each session has its own lock.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (app.Snapshot, error) {
	e := s.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, fn func(*app.Snapshot) error) (app.Snapshot, error) {
	e := s.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.snap
	if err := fn(&snap); err != nil {
		return e.snap, err
	}
	e.snap = snap
	return snap, nil
}

// entry returns the live entry for id, creating or resetting it as needed,
// and extends its expiry.
func (s *MemoryStore) entry(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[id]
	if !ok || (s.ttl > 0 && now.After(e.expires)) {
		e = &entry{snap: app.NewSnapshot()}
		s.entries[id] = e
		metrics.ActiveSessions.Set(float64(len(s.entries)))
	}
	e.expires = now.Add(s.ttl)
	return e
}

// Sweep drops expired sessions and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl <= 0 {
		return 0
	}
	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.entries)))
	return removed
}

// Len is the number of tracked sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}
