package repositories

import (
	"context"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"raildash/internal/models/entities"
	gormModels "raildash/internal/models/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&gormModels.Route{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

func testRoute(projectID, cacheKey string, distance float64) *entities.Route {
	return &entities.Route{
		ProjectID:    projectID,
		Profile:      "rail_default",
		GraphVersion: "g1",
		DistanceM:    distance,
		DurationMs:   60000,
		Geom:         []byte{0x01, 0x02, 0x03},
		Bbox:         []byte{0x04, 0x05},
		Details:      []byte(`{"raw_service":"graphhopper"}`),
		CacheKey:     cacheKey,
	}
}

func TestRouteRepositoryGORM_InsertAssignsID(t *testing.T) {
	repo := NewRouteRepositoryGORM(setupTestDB(t))

	saved, err := repo.Insert(context.Background(), testRoute("project-1", "key-1", 100))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if saved.ID == "" {
		t.Error("expected generated id")
	}

	found, err := repo.FindByID(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil || found.CacheKey != "key-1" {
		t.Fatalf("round trip failed: %+v", found)
	}
	if string(found.Geom) != string(saved.Geom) {
		t.Error("geometry changed in storage")
	}
}

func TestRouteRepositoryGORM_InsertDeduplicatesOnCacheKey(t *testing.T) {
	repo := NewRouteRepositoryGORM(setupTestDB(t))
	ctx := context.Background()

	first, err := repo.Insert(ctx, testRoute("project-1", "key-dup", 100))
	if err != nil {
		t.Fatalf("first Insert: %v", err)
	}

	second, err := repo.Insert(ctx, testRoute("project-1", "key-dup", 999))
	if err != nil {
		t.Fatalf("second Insert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("duplicate insert created a new row: %q vs %q", second.ID, first.ID)
	}
	if second.DistanceM != 100 {
		t.Errorf("duplicate insert should return the existing row, got distance %v", second.DistanceM)
	}

	routes, err := repo.ListForProject(ctx, "project-1", 10, 0)
	if err != nil {
		t.Fatalf("ListForProject: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("expected a single row after duplicate insert, got %d", len(routes))
	}
}

func TestRouteRepositoryGORM_FindByCacheKeyAbsent(t *testing.T) {
	repo := NewRouteRepositoryGORM(setupTestDB(t))

	found, err := repo.FindByCacheKey(context.Background(), "no-such-key")
	if err != nil {
		t.Fatalf("FindByCacheKey: %v", err)
	}
	if found != nil {
		t.Fatalf("expected nil for absent key, got %+v", found)
	}
}

func TestRouteRepositoryGORM_ListOrdersByDistance(t *testing.T) {
	repo := NewRouteRepositoryGORM(setupTestDB(t))
	ctx := context.Background()

	for i, distance := range []float64{300, 100, 200} {
		route := testRoute("project-1", "key-"+string(rune('a'+i)), distance)
		if _, err := repo.Insert(ctx, route); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	if _, err := repo.Insert(ctx, testRoute("project-2", "key-other", 1)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	routes, err := repo.ListForProject(ctx, "project-1", 10, 0)
	if err != nil {
		t.Fatalf("ListForProject: %v", err)
	}
	if len(routes) != 3 {
		t.Fatalf("expected 3 routes, got %d", len(routes))
	}
	for i := 1; i < len(routes); i++ {
		if routes[i-1].DistanceM > routes[i].DistanceM {
			t.Fatalf("routes not ordered by distance: %v then %v", routes[i-1].DistanceM, routes[i].DistanceM)
		}
	}
}

func TestRouteRepositoryGORM_ListPagination(t *testing.T) {
	repo := NewRouteRepositoryGORM(setupTestDB(t))
	ctx := context.Background()

	for i, distance := range []float64{100, 200, 300} {
		route := testRoute("project-1", "key-"+string(rune('a'+i)), distance)
		if _, err := repo.Insert(ctx, route); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	page, err := repo.ListForProject(ctx, "project-1", 2, 1)
	if err != nil {
		t.Fatalf("ListForProject: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 routes on page, got %d", len(page))
	}
	if page[0].DistanceM != 200 || page[1].DistanceM != 300 {
		t.Errorf("unexpected page contents: %v, %v", page[0].DistanceM, page[1].DistanceM)
	}

	// out-of-range values fall back to safe defaults
	all, err := repo.ListForProject(ctx, "project-1", -5, -10)
	if err != nil {
		t.Fatalf("ListForProject: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected clamped defaults to return all rows, got %d", len(all))
	}
}

func TestRouteRepositoryGORM_ReplaceUpdatesInPlace(t *testing.T) {
	repo := NewRouteRepositoryGORM(setupTestDB(t))
	ctx := context.Background()

	saved, err := repo.Insert(ctx, testRoute("project-1", "key-1", 100))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	replacement := testRoute("project-1", "key-2", 555)
	updated, err := repo.Replace(ctx, saved.ID, "project-1", replacement)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if updated == nil {
		t.Fatal("expected updated route")
	}
	if updated.ID != saved.ID {
		t.Errorf("replace changed the id: %q -> %q", saved.ID, updated.ID)
	}
	if updated.DistanceM != 555 || updated.CacheKey != "key-2" {
		t.Errorf("replace did not apply fields: %+v", updated)
	}

	routes, err := repo.ListForProject(ctx, "project-1", 10, 0)
	if err != nil {
		t.Fatalf("ListForProject: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("replace must not create rows, got %d", len(routes))
	}
}

func TestRouteRepositoryGORM_ReplaceProjectMismatch(t *testing.T) {
	repo := NewRouteRepositoryGORM(setupTestDB(t))
	ctx := context.Background()

	saved, err := repo.Insert(ctx, testRoute("project-1", "key-1", 100))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	updated, err := repo.Replace(ctx, saved.ID, "project-2", testRoute("project-2", "key-2", 555))
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if updated != nil {
		t.Fatalf("replace across projects must report absence, got %+v", updated)
	}

	unchanged, err := repo.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if unchanged.DistanceM != 100 {
		t.Errorf("mismatched replace must not modify the row: %+v", unchanged)
	}
}

func TestRouteRepositoryGORM_ConcurrentInsertsConvergeOnOneRow(t *testing.T) {
	db := setupTestDB(t)
	// :memory: exists per connection; pin the pool to one so every
	// goroutine sees the same database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	repo := NewRouteRepositoryGORM(db)
	ctx := context.Background()

	const workers = 8
	ids := make(chan string, workers)
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(distance float64) {
			defer wg.Done()
			saved, err := repo.Insert(ctx, testRoute("project-1", "key-race", distance))
			if err != nil {
				errs <- err
				return
			}
			ids <- saved.ID
		}(float64(100 + i))
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Insert: %v", err)
	}

	var winner string
	for id := range ids {
		if winner == "" {
			winner = id
		}
		if id != winner {
			t.Errorf("callers diverged: %q vs %q", id, winner)
		}
	}
	if winner == "" {
		t.Fatal("no insert succeeded")
	}

	routes, err := repo.ListForProject(ctx, "project-1", 10, 0)
	if err != nil {
		t.Fatalf("ListForProject: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("expected exactly one row after %d concurrent inserts, got %d", workers, len(routes))
	}
	if routes[0].ID != winner {
		t.Errorf("stored row %q does not match converged id %q", routes[0].ID, winner)
	}
}
