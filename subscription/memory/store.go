package memory

import (
	"context"
	"sync"
	"time"

	"github.com/witworkapp/storekit-go/subscription"
)

type InMemoryStore struct {
	mu        sync.RWMutex
	current   *subscription.Record
	startDate *time.Time
}

func NewInMemory() subscription.Store {
	return &InMemoryStore{}
}

func (s *InMemoryStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	s.startDate = nil
}

func (s *InMemoryStore) SaveCurrent(ctx context.Context, record *subscription.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = record.Clone()

	return nil
}

func (s *InMemoryStore) GetCurrent(ctx context.Context) (*subscription.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, subscription.ErrNotFound
	}
	return s.current.Clone(), nil
}

func (s *InMemoryStore) InitStartDate(ctx context.Context, fallback time.Time) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.startDate == nil {
		s.startDate = &fallback
	}
	return *s.startDate, nil
}
