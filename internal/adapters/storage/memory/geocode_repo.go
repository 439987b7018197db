package memory

import (
	"context"
	"sync"

	"pettrack/internal/domain/geocode"
)

type geocodeRepo struct {
	mu     sync.RWMutex
	byAddr map[string]geocode.CacheEntry
}

func NewGeocodeRepo() geocode.Repository {
	return &geocodeRepo{
		byAddr: make(map[string]geocode.CacheEntry),
	}
}

func (r *geocodeRepo) Get(ctx context.Context, address string) (geocode.CacheEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byAddr[address]
	if !ok {
		return geocode.CacheEntry{}, geocode.ErrNotFound
	}
	return e, nil
}

// Put no pisa una entrada existente (mismo comportamiento que el índice único en postgres/mongo).
func (r *geocodeRepo) Put(ctx context.Context, e geocode.CacheEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byAddr[e.Address]; exists {
		return nil
	}
	r.byAddr[e.Address] = e
	return nil
}
