package audit

import (
	"context"
	"slices"
	"sync"
)

// MemStorage keeps audit records in memory. For tests and development only.
type MemStorage struct {
	mu   sync.RWMutex
	recs []Record
}

// NewMemStorage creates an empty in-memory storage.
func NewMemStorage() *MemStorage {
	return &MemStorage{}
}

func (s *MemStorage) Store(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *MemStorage) StoreBatch(ctx context.Context, recs []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, recs...)
	return nil
}

// Records returns a copy of all stored records.
func (s *MemStorage) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.recs)
}
