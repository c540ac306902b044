package cache

import (
	"context"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// InMemoryIdempotencyStore implements shared.IdempotencyStore with a
// plain map. Suitable for a single instance and for tests. A background
// goroutine sweeps expired entries so the map does not grow unbounded.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	seen      map[string]time.Time // eventID -> entry expiration
	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates the store and starts its sweeper
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		seen: make(map[string]time.Time),
		stop: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.sweepLoop()
	return s
}

// MarkProcessed records an event ID with a TTL. Returns true if the
// event was newly recorded, false if a live entry already exists.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiresAt, exists := s.seen[eventID]; exists && time.Now().Before(expiresAt) {
		return false, nil
	}
	s.seen[eventID] = time.Now().Add(ttl)
	return true, nil
}

// IsProcessed reports whether a live entry exists for the event ID
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiresAt, exists := s.seen[eventID]
	if !exists || time.Now().After(expiresAt) {
		return false, nil
	}
	return true, nil
}

// Close stops the sweeper. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for eventID, expiresAt := range s.seen {
		if now.After(expiresAt) {
			delete(s.seen, eventID)
		}
	}
}

// Size returns the number of stored entries, including expired ones
// the sweeper has not collected yet
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
