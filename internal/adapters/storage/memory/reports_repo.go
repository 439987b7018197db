package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pettrack/internal/domain/reports"
)

type reportRepo struct {
	mu   sync.RWMutex
	byID map[string]reports.Report
}

func NewReportRepo() reports.Repository {
	return &reportRepo{
		byID: make(map[string]reports.Report),
	}
}

func (r *reportRepo) Create(ctx context.Context, rep reports.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rep.ID) == "" {
		return errors.New("report id required")
	}
	if _, exists := r.byID[rep.ID]; exists {
		return errors.New("report already exists")
	}
	r.byID[rep.ID] = cloneReport(rep)
	return nil
}

func (r *reportRepo) GetByID(ctx context.Context, id string) (reports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.byID[id]
	if !ok {
		return reports.Report{}, reports.ErrNotFound
	}
	return cloneReport(rep), nil
}

func (r *reportRepo) List(ctx context.Context, filter reports.ListFilter) ([]reports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reports.Report, 0, len(r.byID))
	for _, rep := range r.byID {
		if rep.Status != reports.StatusOpen {
			continue
		}
		if filter.Type != "" && rep.Type != filter.Type {
			continue
		}
		out = append(out, cloneReport(rep))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	return out, nil
}

// Consume toma el lock de escritura: buscar y consumir es una sola operación.
func (r *reportRepo) Consume(ctx context.Context, id string, policy reports.MatchPolicy) (reports.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep, ok := r.byID[id]
	if !ok || rep.Type != reports.TypeLost || rep.Status != reports.StatusOpen {
		return reports.Report{}, reports.ErrNotFound
	}

	rep.Status = reports.StatusMatched
	if policy == reports.PolicyArchive {
		r.byID[id] = rep
	} else {
		delete(r.byID, id)
	}

	return cloneReport(rep), nil
}

// cloneReport evita que los llamadores compartan slices/punteros con el mapa.
func cloneReport(rep reports.Report) reports.Report {
	if rep.PhotoURLs != nil {
		rep.PhotoURLs = append([]string(nil), rep.PhotoURLs...)
	}
	if rep.Location != nil {
		loc := *rep.Location
		rep.Location = &loc
	}
	return rep
}
