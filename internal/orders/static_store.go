package orders

import (
	"context"
	"sync"
)

// StaticStore is an in-memory store for local development and tests.
type StaticStore struct {
	mu      sync.RWMutex
	records map[string][]Record
}

var _ Store = (*StaticStore)(nil)

// NewStaticStore indexes the given records by customer.
func NewStaticStore(records ...Record) *StaticStore {
	s := &StaticStore{records: make(map[string][]Record)}
	for _, rec := range records {
		s.Add(rec)
	}
	return s
}

// Add appends a record under its customer key.
func (s *StaticStore) Add(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := CustomerKey(rec.FirstName, rec.LastName)
	s.records[key] = append(s.records[key], rec)
}

func (s *StaticStore) LookupOrders(_ context.Context, firstName, lastName string) ([]Record, error) {
	if err := validateName(firstName, lastName); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	found := s.records[CustomerKey(firstName, lastName)]
	out := make([]Record, len(found))
	copy(out, found)
	return out, nil
}
