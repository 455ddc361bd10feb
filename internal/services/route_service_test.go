package services

import (
	"context"
	"errors"
	"testing"

	"raildash/internal/models/dtos"
	"raildash/internal/models/entities"
)

type mockRouteStore struct {
	findByCacheKeyFunc func(ctx context.Context, cacheKey string) (*entities.Route, error)
	findByIDFunc       func(ctx context.Context, id string) (*entities.Route, error)
	listFunc           func(ctx context.Context, projectID string, limit, offset int) ([]entities.Route, error)
	insertFunc         func(ctx context.Context, route *entities.Route) (*entities.Route, error)
	replaceFunc        func(ctx context.Context, id, projectID string, route *entities.Route) (*entities.Route, error)

	insertCalls int
}

func (m *mockRouteStore) FindByCacheKey(ctx context.Context, cacheKey string) (*entities.Route, error) {
	if m.findByCacheKeyFunc == nil {
		return nil, nil
	}
	return m.findByCacheKeyFunc(ctx, cacheKey)
}

func (m *mockRouteStore) FindByID(ctx context.Context, id string) (*entities.Route, error) {
	if m.findByIDFunc == nil {
		return nil, nil
	}
	return m.findByIDFunc(ctx, id)
}

func (m *mockRouteStore) ListForProject(ctx context.Context, projectID string, limit, offset int) ([]entities.Route, error) {
	if m.listFunc == nil {
		return nil, nil
	}
	return m.listFunc(ctx, projectID, limit, offset)
}

func (m *mockRouteStore) Insert(ctx context.Context, route *entities.Route) (*entities.Route, error) {
	m.insertCalls++
	if m.insertFunc == nil {
		return route, nil
	}
	return m.insertFunc(ctx, route)
}

func (m *mockRouteStore) Replace(ctx context.Context, id, projectID string, route *entities.Route) (*entities.Route, error) {
	if m.replaceFunc == nil {
		return nil, nil
	}
	return m.replaceFunc(ctx, id, projectID, route)
}

type mockRoutingAPI struct {
	routeFunc func(ctx context.Context, waypoints []dtos.Waypoint, profile string, options map[string]any) (*dtos.RoutingPath, error)

	calls int
}

func (m *mockRoutingAPI) Route(ctx context.Context, waypoints []dtos.Waypoint, profile string, options map[string]any) (*dtos.RoutingPath, error) {
	m.calls++
	return m.routeFunc(ctx, waypoints, profile, options)
}

func validRouteIn() dtos.RouteIn {
	return dtos.RouteIn{
		Waypoints: []dtos.Waypoint{{Lat: 52.52, Lon: 13.405}, {Lat: 48.137154, Lon: 11.576124}},
	}
}

func TestComputeAndStore_CacheHitSkipsEngine(t *testing.T) {
	cached := &entities.Route{ID: "route-1", ProjectID: "project-1", DistanceM: 500}
	store := &mockRouteStore{
		findByCacheKeyFunc: func(ctx context.Context, cacheKey string) (*entities.Route, error) {
			return cached, nil
		},
	}
	routing := &mockRoutingAPI{
		routeFunc: func(ctx context.Context, waypoints []dtos.Waypoint, profile string, options map[string]any) (*dtos.RoutingPath, error) {
			return testPath(), nil
		},
	}
	svc := NewRouteService(store, routing, "g1", nil)

	got, err := svc.ComputeAndStore(context.Background(), "project-1", validRouteIn())
	if err != nil {
		t.Fatalf("ComputeAndStore: %v", err)
	}
	if got != cached {
		t.Error("expected the cached route back")
	}
	if routing.calls != 0 {
		t.Errorf("routing engine called %d times on cache hit", routing.calls)
	}
	if store.insertCalls != 0 {
		t.Errorf("insert called %d times on cache hit", store.insertCalls)
	}
}

func TestComputeAndStore_MissComputesAndPersists(t *testing.T) {
	var inserted *entities.Route
	store := &mockRouteStore{
		insertFunc: func(ctx context.Context, route *entities.Route) (*entities.Route, error) {
			inserted = route
			route.ID = "route-new"
			return route, nil
		},
	}
	routing := &mockRoutingAPI{
		routeFunc: func(ctx context.Context, waypoints []dtos.Waypoint, profile string, options map[string]any) (*dtos.RoutingPath, error) {
			if profile != DefaultProfile {
				t.Errorf("expected default profile, got %q", profile)
			}
			return testPath(), nil
		},
	}
	svc := NewRouteService(store, routing, "g1", nil)

	got, err := svc.ComputeAndStore(context.Background(), "project-1", validRouteIn())
	if err != nil {
		t.Fatalf("ComputeAndStore: %v", err)
	}
	if routing.calls != 1 {
		t.Errorf("routing engine called %d times", routing.calls)
	}
	if inserted == nil {
		t.Fatal("route was not persisted")
	}
	if got.ID != "route-new" {
		t.Errorf("route id = %q", got.ID)
	}
	if inserted.ProjectID != "project-1" || inserted.GraphVersion != "g1" {
		t.Errorf("unexpected persisted route: %+v", inserted)
	}
	if inserted.DistanceM != 1234.5 || inserted.DurationMs != 98765 {
		t.Errorf("distance/duration mismatch: %+v", inserted)
	}
	if len(inserted.Geom) == 0 || len(inserted.Bbox) == 0 {
		t.Error("geometry not stored")
	}
	want := RouteHash(validRouteIn().Waypoints, DefaultProfile, nil, "g1")
	if inserted.CacheKey != want {
		t.Errorf("cache key = %q, want %q", inserted.CacheKey, want)
	}
}

func TestComputeAndStore_NoPathIsNotPersisted(t *testing.T) {
	store := &mockRouteStore{}
	routing := &mockRoutingAPI{
		routeFunc: func(ctx context.Context, waypoints []dtos.Waypoint, profile string, options map[string]any) (*dtos.RoutingPath, error) {
			return nil, &NoPathError{Message: "no path between waypoints"}
		},
	}
	svc := NewRouteService(store, routing, "g1", nil)

	_, err := svc.ComputeAndStore(context.Background(), "project-1", validRouteIn())
	var noPath *NoPathError
	if !errors.As(err, &noPath) {
		t.Fatalf("expected NoPathError, got %v", err)
	}
	if store.insertCalls != 0 {
		t.Error("failed computation must not be persisted")
	}
}

func TestComputeAndStore_UpstreamErrorIsNotPersisted(t *testing.T) {
	store := &mockRouteStore{}
	routing := &mockRoutingAPI{
		routeFunc: func(ctx context.Context, waypoints []dtos.Waypoint, profile string, options map[string]any) (*dtos.RoutingPath, error) {
			return nil, &UpstreamError{Message: "engine unreachable"}
		},
	}
	svc := NewRouteService(store, routing, "g1", nil)

	_, err := svc.ComputeAndStore(context.Background(), "project-1", validRouteIn())
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if store.insertCalls != 0 {
		t.Error("failed computation must not be persisted")
	}
}

func TestComputeAndStore_RejectsBadInput(t *testing.T) {
	store := &mockRouteStore{}
	routing := &mockRoutingAPI{
		routeFunc: func(ctx context.Context, waypoints []dtos.Waypoint, profile string, options map[string]any) (*dtos.RoutingPath, error) {
			return testPath(), nil
		},
	}
	svc := NewRouteService(store, routing, "g1", nil)

	cases := map[string]dtos.RouteIn{
		"single waypoint":  {Waypoints: []dtos.Waypoint{{Lat: 1, Lon: 2}}},
		"latitude too big": {Waypoints: []dtos.Waypoint{{Lat: 91, Lon: 2}, {Lat: 1, Lon: 2}}},
		"longitude too small": {
			Waypoints: []dtos.Waypoint{{Lat: 1, Lon: -181}, {Lat: 1, Lon: 2}},
		},
	}
	for name, in := range cases {
		_, err := svc.ComputeAndStore(context.Background(), "project-1", in)
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("%s: expected ValidationError, got %v", name, err)
		}
	}
	if routing.calls != 0 || store.insertCalls != 0 {
		t.Error("invalid input must be rejected before any engine or store call")
	}
}

func TestCalculateOnly_NeverWrites(t *testing.T) {
	store := &mockRouteStore{
		findByCacheKeyFunc: func(ctx context.Context, cacheKey string) (*entities.Route, error) {
			t.Error("CalculateOnly must not touch the cache")
			return nil, nil
		},
	}
	routing := &mockRoutingAPI{
		routeFunc: func(ctx context.Context, waypoints []dtos.Waypoint, profile string, options map[string]any) (*dtos.RoutingPath, error) {
			return testPath(), nil
		},
	}
	svc := NewRouteService(store, routing, "g1", nil)

	feature, err := svc.CalculateOnly(context.Background(), validRouteIn())
	if err != nil {
		t.Fatalf("CalculateOnly: %v", err)
	}
	if store.insertCalls != 0 {
		t.Error("CalculateOnly must not persist")
	}

	if feature.Type != "Feature" || feature.Geometry.Type != "LineString" {
		t.Errorf("unexpected feature envelope: %+v", feature)
	}
	if len(feature.Geometry.Coordinates) != 3 {
		t.Errorf("expected 3 coordinates, got %d", len(feature.Geometry.Coordinates))
	}
	props := feature.Properties
	if props["profile"] != DefaultProfile || props["graph_version"] != "g1" {
		t.Errorf("unexpected properties: %v", props)
	}
	want := RouteHash(validRouteIn().Waypoints, DefaultProfile, nil, "g1")
	if props["cache_key"] != want {
		t.Errorf("cache_key = %v, want %q", props["cache_key"], want)
	}
	bbox, ok := props["bbox"].([]float64)
	if !ok || len(bbox) != 4 {
		t.Fatalf("bbox = %v", props["bbox"])
	}
	if bbox[0] > bbox[2] || bbox[1] > bbox[3] {
		t.Errorf("bbox not min/max ordered: %v", bbox)
	}
}

func TestConfirmAndStore_RoundTripsCalculatedFeature(t *testing.T) {
	routing := &mockRoutingAPI{
		routeFunc: func(ctx context.Context, waypoints []dtos.Waypoint, profile string, options map[string]any) (*dtos.RoutingPath, error) {
			return testPath(), nil
		},
	}
	var inserted *entities.Route
	store := &mockRouteStore{
		insertFunc: func(ctx context.Context, route *entities.Route) (*entities.Route, error) {
			inserted = route
			return route, nil
		},
	}
	svc := NewRouteService(store, routing, "g1", nil)

	feature, err := svc.CalculateOnly(context.Background(), validRouteIn())
	if err != nil {
		t.Fatalf("CalculateOnly: %v", err)
	}

	if _, err := svc.ConfirmAndStore(context.Background(), "project-1", *feature); err != nil {
		t.Fatalf("ConfirmAndStore: %v", err)
	}
	if inserted == nil {
		t.Fatal("confirmed route was not persisted")
	}
	if inserted.CacheKey != feature.Properties["cache_key"] {
		t.Errorf("cache key lost in confirmation: %q", inserted.CacheKey)
	}
	if inserted.DistanceM != 1234.5 || inserted.DurationMs != 98765 {
		t.Errorf("metadata lost in confirmation: %+v", inserted)
	}
}

func TestConfirmAndStore_RejectsDegenerateGeometry(t *testing.T) {
	store := &mockRouteStore{}
	svc := NewRouteService(store, nil, "g1", nil)

	cases := map[string]dtos.RouteFeature{
		"empty feature": {Type: "Feature"},
		"single-point line": {
			Type: "Feature",
			Geometry: dtos.FeatureGeometry{
				Type:        "LineString",
				Coordinates: [][]float64{{13.405, 52.52}},
			},
			Properties: map[string]any{"profile": "rail_default", "distance_m": 0.0},
		},
	}
	for name, feature := range cases {
		_, err := svc.ConfirmAndStore(context.Background(), "project-1", feature)
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("%s: expected ValidationError, got %v", name, err)
		}
	}
	if store.insertCalls != 0 {
		t.Error("degenerate geometry must not reach the store")
	}
}

func TestConfirmAndReplace_MissingRoute(t *testing.T) {
	store := &mockRouteStore{
		replaceFunc: func(ctx context.Context, id, projectID string, route *entities.Route) (*entities.Route, error) {
			return nil, nil
		},
	}
	svc := NewRouteService(store, nil, "g1", nil)

	feature := dtos.RouteFeature{
		Type: "Feature",
		Geometry: dtos.FeatureGeometry{
			Type:        "LineString",
			Coordinates: [][]float64{{13.405, 52.52}, {13.5, 52.6}},
		},
	}
	_, err := svc.ConfirmAndReplace(context.Background(), "project-1", "route-404", feature)
	if !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("expected ErrRouteNotFound, got %v", err)
	}
}

func TestConfirmAndReplace_PassesRouteAndProjectIDs(t *testing.T) {
	store := &mockRouteStore{
		replaceFunc: func(ctx context.Context, id, projectID string, route *entities.Route) (*entities.Route, error) {
			if id != "route-1" || projectID != "project-1" {
				t.Errorf("replace called with id=%q project=%q", id, projectID)
			}
			route.ID = id
			route.ProjectID = projectID
			return route, nil
		},
	}
	svc := NewRouteService(store, nil, "g1", nil)

	feature := dtos.RouteFeature{
		Type: "Feature",
		Geometry: dtos.FeatureGeometry{
			Type:        "LineString",
			Coordinates: [][]float64{{13.405, 52.52}, {13.5, 52.6}},
		},
		Properties: map[string]any{"cache_key": "abc", "distance_m": 10.0},
	}
	updated, err := svc.ConfirmAndReplace(context.Background(), "project-1", "route-1", feature)
	if err != nil {
		t.Fatalf("ConfirmAndReplace: %v", err)
	}
	if updated.ID != "route-1" || updated.DistanceM != 10 {
		t.Errorf("unexpected updated route: %+v", updated)
	}
}

func TestGetByID_Missing(t *testing.T) {
	svc := NewRouteService(&mockRouteStore{}, nil, "g1", nil)

	_, err := svc.GetByID(context.Background(), "route-404")
	if !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("expected ErrRouteNotFound, got %v", err)
	}
}
