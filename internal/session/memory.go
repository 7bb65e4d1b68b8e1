package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// CleanupInterval is how often the background sweep for expired sessions runs.
const CleanupInterval = time.Minute

type memoryEntry struct {
	data     []byte
	deadline time.Time
}

// MemoryStore implements Store with process-local storage. It backs tests
// and the no-Redis dev mode; sessions expire after the configured TTL,
// refreshed on every write.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries:     make(map[string]memoryEntry),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

func (s *MemoryStore) Get(_ context.Context, sessionID, key string, out interface{}) error {
	s.mu.RLock()
	entry, ok := s.entries[sessionKey(sessionID, key)]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.deadline) {
		return ErrNoValue
	}
	if err := json.Unmarshal(entry.data, out); err != nil {
		return fmt.Errorf("unmarshal session value failed: %w", err)
	}
	return nil
}

func (s *MemoryStore) Set(_ context.Context, sessionID, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal session value failed: %w", err)
	}

	s.mu.Lock()
	s.entries[sessionKey(sessionID, key)] = memoryEntry{data: data, deadline: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID, key string) error {
	s.mu.Lock()
	delete(s.entries, sessionKey(sessionID, key))
	s.mu.Unlock()
	return nil
}

// Close stops the cleanup goroutine and waits for it to finish.
func (s *MemoryStore) Close() {
	close(s.stopCleanup)
	s.wg.Wait()
}

func (s *MemoryStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, entry := range s.entries {
		if now.After(entry.deadline) {
			delete(s.entries, k)
		}
	}
}
