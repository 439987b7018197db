package geocode

import (
	"context"
	"errors"
	"testing"

	"pettrack/internal/platform/logger"
)

type testRepo struct {
	byAddr map[string]CacheEntry
	puts   int
}

func newTestRepo() *testRepo { return &testRepo{byAddr: map[string]CacheEntry{}} }

func (r *testRepo) Get(ctx context.Context, address string) (CacheEntry, error) {
	e, ok := r.byAddr[address]
	if !ok {
		return CacheEntry{}, ErrNotFound
	}
	return e, nil
}

func (r *testRepo) Put(ctx context.Context, e CacheEntry) error {
	r.puts++
	if _, ok := r.byAddr[e.Address]; ok {
		return nil
	}
	r.byAddr[e.Address] = e
	return nil
}

type testProvider struct {
	calls int
	res   Result
	err   error
}

func (p *testProvider) Geocode(ctx context.Context, address string) (Result, error) {
	p.calls++
	return p.res, p.err
}

func TestService_Resolve_MissThenTableHit(t *testing.T) {
	repo := newTestRepo()
	prov := &testProvider{res: Result{Lng: -58.38, Lat: -34.6, Formatted: "Buenos Aires"}}
	svc := NewService(repo, prov, Options{}, logger.Discard())

	res, ok := svc.Resolve(context.Background(), "Av. Corrientes 1000")
	if !ok {
		t.Fatalf("expected resolution")
	}
	if res.Lng != -58.38 || res.Lat != -34.6 {
		t.Fatalf("unexpected result %#v", res)
	}
	if prov.calls != 1 || repo.puts != 1 {
		t.Fatalf("expected 1 provider call and 1 cache write, got %d/%d", prov.calls, repo.puts)
	}

	// segunda vez: sale de la tabla
	if _, ok := svc.Resolve(context.Background(), "Av. Corrientes 1000"); !ok {
		t.Fatalf("expected cached resolution")
	}
	if prov.calls != 1 {
		t.Fatalf("expected provider not to be called again, got %d calls", prov.calls)
	}
}

func TestService_Resolve_MemoryCacheSkipsTable(t *testing.T) {
	repo := newTestRepo()
	prov := &testProvider{res: Result{Lng: 1, Lat: 2}}
	svc := NewService(repo, prov, Options{MemorySize: 8}, logger.Discard())

	svc.Resolve(context.Background(), "a")
	delete(repo.byAddr, "a")

	if _, ok := svc.Resolve(context.Background(), "a"); !ok {
		t.Fatalf("expected memory hit")
	}
	if prov.calls != 1 {
		t.Fatalf("expected a single provider call, got %d", prov.calls)
	}
}

func TestService_Resolve_FailureMeansNoLocation(t *testing.T) {
	repo := newTestRepo()
	prov := &testProvider{err: errors.New("boom")}
	svc := NewService(repo, prov, Options{}, logger.Discard())

	if _, ok := svc.Resolve(context.Background(), "nowhere"); ok {
		t.Fatalf("expected no location on provider failure")
	}
	if repo.puts != 0 {
		t.Fatalf("expected nothing cached on failure")
	}
}

func TestService_Resolve_EmptyAddressAndNilService(t *testing.T) {
	var nilSvc *Service
	if _, ok := nilSvc.Resolve(context.Background(), "x"); ok {
		t.Fatalf("nil service must not resolve")
	}

	prov := &testProvider{}
	svc := NewService(nil, prov, Options{}, logger.Discard())
	if _, ok := svc.Resolve(context.Background(), "   "); ok {
		t.Fatalf("empty address must not resolve")
	}
	if prov.calls != 0 {
		t.Fatalf("provider must not be called for empty address")
	}
}

func TestService_Resolve_NilLoggerOnFailures(t *testing.T) {
	repo := &brokenRepo{}
	prov := &testProvider{err: errors.New("boom")}
	svc := NewService(repo, prov, Options{}, nil)

	if _, ok := svc.Resolve(context.Background(), "nowhere"); ok {
		t.Fatalf("expected no location on provider failure")
	}

	prov.err = nil
	prov.res = Result{Lng: 1, Lat: 2}
	if _, ok := svc.Resolve(context.Background(), "somewhere"); !ok {
		t.Fatalf("expected provider result even when the cache table fails")
	}
}

// brokenRepo falla siempre, para ejercitar los warnings del servicio.
type brokenRepo struct{}

func (brokenRepo) Get(ctx context.Context, address string) (CacheEntry, error) {
	return CacheEntry{}, errors.New("table down")
}

func (brokenRepo) Put(ctx context.Context, e CacheEntry) error {
	return errors.New("table down")
}
