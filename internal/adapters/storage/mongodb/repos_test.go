package mongodb

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pettrack/internal/domain/geocode"
	"pettrack/internal/domain/matches"
	"pettrack/internal/domain/reports"

	tcmongodb "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
)

// setupTestDB levanta MongoDB con testcontainers y crea los índices.
func setupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION not set")
	}

	ctx := context.Background()

	container, err := tcmongodb.Run(ctx, "docker.io/mongo:7")
	if err != nil {
		t.Fatalf("start mongo container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	client, err := Connect(ctx, uri)
	if err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("pettrack_test")
	if err := EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("EnsureIndexes error: %v", err)
	}
	// segunda vez: los índices ya existen
	if err := EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("second EnsureIndexes error: %v", err)
	}
	return db
}

func seedLost(t *testing.T, repo *ReportsRepo, id string, createdAt time.Time) reports.Report {
	t.Helper()

	r := reports.Report{
		ID:         id,
		Name:       id,
		Type:       reports.TypeLost,
		OwnerID:    "owner-1",
		Status:     reports.StatusOpen,
		ReportedAt: createdAt,
		CreatedAt:  createdAt,
	}
	if err := repo.Create(context.Background(), r); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	return r
}

func consumeConcurrently(t *testing.T, repo *ReportsRepo, id string, policy reports.MatchPolicy) int32 {
	t.Helper()

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rep, err := repo.Consume(context.Background(), id, policy)
			if err == nil {
				wins.Add(1)
				if rep.Status != reports.StatusMatched {
					t.Errorf("expected matched status, got %s", rep.Status)
				}
			} else if !errors.Is(err, reports.ErrNotFound) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	return wins.Load()
}

func TestReportsRepo_RoundTripAndConsume(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReportsRepo(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	lost := reports.Report{
		ID:           "lost-1",
		Name:         "Rex",
		Type:         reports.TypeLost,
		Breed:        "Labrador",
		ContactPhone: "555-0100",
		ReportedAt:   now,
		PhotoURLs:    []string{"https://img/1.jpg", "https://img/2.jpg"},
		Location:     reports.NewPoint(-58.38, -34.6),
		OwnerID:      "owner-1",
		Status:       reports.StatusOpen,
		CreatedAt:    now,
	}
	if err := repo.Create(ctx, lost); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	got, err := repo.GetByID(ctx, lost.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Name != "Rex" || got.Breed != "Labrador" || len(got.PhotoURLs) != 2 || got.Status != reports.StatusOpen {
		t.Fatalf("unexpected report %#v", got)
	}
	if got.Location == nil || got.Location.Lng() != -58.38 || got.Location.Lat() != -34.6 {
		t.Fatalf("expected GeoJSON point restored, got %#v", got.Location)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("expected createdAt %v, got %v", now, got.CreatedAt)
	}

	if wins := consumeConcurrently(t, repo, lost.ID, reports.PolicyDelete); wins != 1 {
		t.Fatalf("expected a single consumer, got %d", wins)
	}
	if _, err := repo.GetByID(ctx, lost.ID); !errors.Is(err, reports.ErrNotFound) {
		t.Fatalf("expected report deleted, got %v", err)
	}
}

func TestReportsRepo_ArchiveSingleWinnerAndHiddenFromList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReportsRepo(db)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	seedLost(t, repo, "a", base)
	seedLost(t, repo, "b", base.Add(time.Second))
	err := repo.Create(ctx, reports.Report{
		ID: "f", Name: "f", Type: reports.TypeFound, OwnerID: "finder",
		Status: reports.StatusOpen, ReportedAt: base, CreatedAt: base.Add(2 * time.Second),
	})
	if err != nil {
		t.Fatalf("Create found error: %v", err)
	}

	if wins := consumeConcurrently(t, repo, "a", reports.PolicyArchive); wins != 1 {
		t.Fatalf("expected a single consumer, got %d", wins)
	}

	kept, err := repo.GetByID(ctx, "a")
	if err != nil || kept.Status != reports.StatusMatched {
		t.Fatalf("expected archived report kept as matched, got %#v / %v", kept, err)
	}

	lost, err := repo.List(ctx, reports.ListFilter{Type: reports.TypeLost})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(lost) != 1 || lost[0].ID != "b" {
		t.Fatalf("expected only b listed, got %#v", lost)
	}

	all, err := repo.List(ctx, reports.ListFilter{})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(all) != 2 || all[0].ID != "f" || all[1].ID != "b" {
		t.Fatalf("expected open reports newest first, got %#v", all)
	}

	// Un found nunca se consume.
	if _, err := repo.Consume(ctx, "f", reports.PolicyArchive); !errors.Is(err, reports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound consuming a found report, got %v", err)
	}
	if _, err := repo.Consume(ctx, "missing", reports.PolicyDelete); !errors.Is(err, reports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestMatchesRepo_SnapshotNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMatchesRepo(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	for i, id := range []string{"m1", "m2"} {
		err := repo.Create(ctx, matches.Match{
			ID: id, LostReportID: "l-" + id, FoundReportID: "f1", Score: 0.85,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
			Lost: reports.Report{
				ID: "l-" + id, Name: "Rex", Type: reports.TypeLost, OwnerID: "u",
				Status: reports.StatusMatched, Location: reports.NewPoint(1, 2),
			},
		})
		if err != nil {
			t.Fatalf("match Create error: %v", err)
		}
	}

	items, err := repo.List(ctx)
	if err != nil || len(items) != 2 {
		t.Fatalf("expected 2 matches, got %d / %v", len(items), err)
	}
	if items[0].ID != "m2" || items[1].ID != "m1" {
		t.Fatalf("expected newest first, got %s, %s", items[0].ID, items[1].ID)
	}
	if items[0].Lost.Name != "Rex" || items[0].Lost.Location == nil || items[0].Score != 0.85 {
		t.Fatalf("expected lost snapshot restored, got %#v", items[0])
	}
}

func TestGeocodeRepo_FirstEntryWins(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGeocodeRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := repo.Get(ctx, "nowhere"); !errors.Is(err, geocode.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.Put(ctx, geocode.CacheEntry{Address: "x", Lng: 1, Lat: 2, Formatted: "X", CreatedAt: now}); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if err := repo.Put(ctx, geocode.CacheEntry{Address: "x", Lng: 9, Lat: 9, CreatedAt: now}); err != nil {
		t.Fatalf("duplicate Put must be ignored, got %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := repo.Put(ctx, geocode.CacheEntry{Address: "y", Lng: float64(i), Lat: 3, CreatedAt: now}); err != nil {
				t.Errorf("concurrent Put error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	e, err := repo.Get(ctx, "x")
	if err != nil || e.Lng != 1 || e.Lat != 2 || e.Formatted != "X" {
		t.Fatalf("expected first entry to win, got %#v / %v", e, err)
	}
	if _, err := repo.Get(ctx, "y"); err != nil {
		t.Fatalf("expected a single y entry, got %v", err)
	}
}
