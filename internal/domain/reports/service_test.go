package reports

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	mu   sync.Mutex
	byID map[string]Report
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Report{}}
}

func (r *testRepo) Create(ctx context.Context, rep Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[rep.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[rep.ID] = rep
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.byID[id]
	if !ok {
		return Report{}, ErrNotFound
	}
	return rep, nil
}

func (r *testRepo) List(ctx context.Context, filter ListFilter) ([]Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Report, 0)
	for _, rep := range r.byID {
		if rep.Status != StatusOpen {
			continue
		}
		if filter.Type != "" && rep.Type != filter.Type {
			continue
		}
		out = append(out, rep)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *testRepo) Consume(ctx context.Context, id string, policy MatchPolicy) (Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.byID[id]
	if !ok || rep.Type != TypeLost || rep.Status != StatusOpen {
		return Report{}, ErrNotFound
	}
	rep.Status = StatusMatched
	if policy == PolicyArchive {
		r.byID[id] = rep
	} else {
		delete(r.byID, id)
	}
	return rep, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsAndTrim(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, PolicyDelete)

	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	r, err := svc.Create(context.Background(), CreateInput{
		Name:      "  Rex ",
		Type:      TypeLost,
		PhotoURLs: []string{"https://img/1.jpg", "  "},
		OwnerID:   "user-1",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if r.Name != "Rex" {
		t.Fatalf("expected trimmed name, got %q", r.Name)
	}
	if r.ID == "" {
		t.Fatalf("expected generated id")
	}
	if r.Status != StatusOpen {
		t.Fatalf("expected status open, got %s", r.Status)
	}
	if !r.ReportedAt.Equal(now) || !r.CreatedAt.Equal(now) {
		t.Fatalf("expected ReportedAt/CreatedAt to default to now")
	}
	if len(r.PhotoURLs) != 1 {
		t.Fatalf("expected blank photo url dropped, got %#v", r.PhotoURLs)
	}
	if _, err := repo.GetByID(context.Background(), r.ID); err != nil {
		t.Fatalf("expected report persisted: %v", err)
	}
}

func TestService_Create_RejectsInvalid(t *testing.T) {
	svc := NewService(newTestRepo(), PolicyDelete)

	cases := map[string]CreateInput{
		"missing name":    {Type: TypeLost, OwnerID: "u"},
		"bad type":        {Name: "Rex", Type: Type("stolen"), OwnerID: "u"},
		"too many photos": {Name: "Rex", Type: TypeFound, OwnerID: "u", PhotoURLs: []string{"1", "2", "3", "4", "5", "6"}},
		"missing owner":   {Name: "Rex", Type: TypeFound},
	}
	for name, in := range cases {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestService_Create_DropsInvalidLocation(t *testing.T) {
	svc := NewService(newTestRepo(), PolicyDelete)

	r, err := svc.Create(context.Background(), CreateInput{
		Name:     "Rex",
		Type:     TypeFound,
		OwnerID:  "u",
		Location: NewPoint(200, 10),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if r.Location != nil {
		t.Fatalf("expected out-of-range location to be dropped, got %#v", r.Location)
	}
}

func TestService_List_IgnoresUnknownType_NewestFirst(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, PolicyDelete)

	base := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	for i, typ := range []Type{TypeLost, TypeFound, TypeLost} {
		at := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return at }
		if _, err := svc.Create(context.Background(), CreateInput{Name: "p", Type: typ, OwnerID: "u"}); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	all, err := svc.List(context.Background(), "bogus")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected unknown type to be ignored (3 items), got %d", len(all))
	}
	if !all[0].CreatedAt.After(all[1].CreatedAt) || !all[1].CreatedAt.After(all[2].CreatedAt) {
		t.Fatalf("expected newest first")
	}

	lost, err := svc.List(context.Background(), "lost")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(lost) != 2 {
		t.Fatalf("expected 2 lost reports, got %d", len(lost))
	}
}

func TestService_List_TypeFilterIsExact(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, PolicyDelete)

	for _, typ := range []Type{TypeLost, TypeFound} {
		if _, err := svc.Create(context.Background(), CreateInput{Name: "p", Type: typ, OwnerID: "u"}); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	for _, raw := range []string{"LOST", " lost ", "Found"} {
		items, err := svc.List(context.Background(), raw)
		if err != nil {
			t.Fatalf("List(%q) error: %v", raw, err)
		}
		if len(items) != 2 {
			t.Fatalf("List(%q): expected no filter (2 items), got %d", raw, len(items))
		}
	}

	found, err := svc.List(context.Background(), "found")
	if err != nil || len(found) != 1 || found[0].Type != TypeFound {
		t.Fatalf("expected only the found report, got %#v / %v", found, err)
	}
}

func TestService_ConfirmMatch_DeletePolicy_SingleConsumer(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, PolicyDelete)

	lost, err := svc.Create(context.Background(), CreateInput{Name: "Rex", Type: TypeLost, OwnerID: "u"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	got, err := svc.ConfirmMatch(context.Background(), lost.ID)
	if err != nil {
		t.Fatalf("ConfirmMatch error: %v", err)
	}
	if got.ID != lost.ID || got.Name != "Rex" || got.Status != StatusMatched {
		t.Fatalf("expected consumed report, got %#v", got)
	}
	if _, err := repo.GetByID(context.Background(), lost.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected lost report deleted, got %v", err)
	}

	// segundo consumo: ya no existe
	if _, err := svc.ConfirmMatch(context.Background(), lost.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second consume, got %v", err)
	}
}

func TestService_ConfirmMatch_ArchivePolicy_HidesFromList(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, PolicyArchive)

	lost, _ := svc.Create(context.Background(), CreateInput{Name: "Rex", Type: TypeLost, OwnerID: "u"})

	if _, err := svc.ConfirmMatch(context.Background(), lost.ID); err != nil {
		t.Fatalf("ConfirmMatch error: %v", err)
	}

	stored, err := repo.GetByID(context.Background(), lost.ID)
	if err != nil {
		t.Fatalf("expected archived report to remain: %v", err)
	}
	if stored.Status != StatusMatched {
		t.Fatalf("expected status matched, got %s", stored.Status)
	}

	items, _ := svc.List(context.Background(), "lost")
	if len(items) != 0 {
		t.Fatalf("expected archived report hidden from list, got %d", len(items))
	}
}

func TestService_ConfirmMatch_RejectsFoundReports(t *testing.T) {
	svc := NewService(newTestRepo(), PolicyDelete)

	found, _ := svc.Create(context.Background(), CreateInput{Name: "Rex", Type: TypeFound, OwnerID: "u"})
	if _, err := svc.ConfirmMatch(context.Background(), found.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for found report, got %v", err)
	}
}
