package orders

import (
	"context"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const sharedLookupTimeout = 10 * time.Second

// CachedStore keeps recent lookups in an expiring LRU and collapses
// concurrent lookups for the same customer into one backend call.
// Failed lookups are never cached.
type CachedStore struct {
	next          Store
	cache         *expirable.LRU[string, []Record]
	group         singleflight.Group
	lookupTimeout time.Duration
}

var _ Store = (*CachedStore)(nil)

// NewCachedStore wraps next. A non-positive size is clamped to 1.
func NewCachedStore(next Store, size int, ttl time.Duration) *CachedStore {
	if next == nil {
		panic("orders: cached store requires a backing store")
	}
	if size <= 0 {
		size = 1
	}
	return &CachedStore{
		next:          next,
		cache:         expirable.NewLRU[string, []Record](size, nil, ttl),
		lookupTimeout: sharedLookupTimeout,
	}
}

// LookupOrders returns a copy of the customer's orders. The shared backend
// call outlives any single caller's cancellation, and each caller still
// stops waiting when its own context is done.
func (s *CachedStore) LookupOrders(ctx context.Context, firstName, lastName string) ([]Record, error) {
	key := CustomerKey(firstName, lastName)
	if records, ok := s.cache.Get(key); ok {
		return slices.Clone(records), nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.lookupTimeout)
		defer cancel()

		records, err := s.next.LookupOrders(lookupCtx, firstName, lastName)
		if err != nil {
			return nil, err
		}
		s.cache.Add(key, records)
		return records, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]Record)), nil
	}
}
