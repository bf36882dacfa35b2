package ratelimit

import (
	"sync"
	"time"
)

type Store interface {
	Get(key string) (count int, windowEnd time.Time, exists bool)
	Increment(key string, windowEnd time.Time) (count int)
	Reset(key string)
}

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*entry
}

type entry struct {
	count     int
	windowEnd time.Time
}

func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		data: make(map[string]*entry),
	}

	go store.cleanup()

	return store
}

func (s *MemoryStore) Get(key string) (count int, windowEnd time.Time, exists bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, exists := s.data[key]; exists && time.Now().Before(e.windowEnd) {
		return e.count, e.windowEnd, true
	}

	return 0, time.Time{}, false
}

func (s *MemoryStore) Increment(key string, windowEnd time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.data[key]; exists && time.Now().Before(e.windowEnd) {
		e.count++
		return e.count
	}

	s.data[key] = &entry{
		count:     1,
		windowEnd: windowEnd,
	}

	return 1
}

func (s *MemoryStore) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
}

func (s *MemoryStore) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		now := time.Now()

		for key, e := range s.data {
			if now.After(e.windowEnd) {
				delete(s.data, key)
			}
		}

		s.mu.Unlock()
	}
}
