package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pettrack/internal/domain/matches"
)

type matchRepo struct {
	mu    sync.RWMutex
	items []matches.Match
}

func NewMatchRepo() matches.Repository {
	return &matchRepo{}
}

func (r *matchRepo) Create(ctx context.Context, m matches.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("match id required")
	}
	m.Lost = cloneReport(m.Lost)
	r.items = append(r.items, m)
	return nil
}

func (r *matchRepo) List(ctx context.Context) ([]matches.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Se recorre al revés para que, a igual created_at, gane el último insertado.
	out := make([]matches.Match, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		m := r.items[i]
		m.Lost = cloneReport(m.Lost)
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}
