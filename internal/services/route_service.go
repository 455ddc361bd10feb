package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"raildash/internal/logging"
	"raildash/internal/metrics"
	"raildash/internal/models/dtos"
	"raildash/internal/models/entities"
)

const DefaultProfile = "rail_default"

// RoutingAPI is the outbound contract to the routing engine. Implemented by
// providers.RoutingProvider; mocked in tests.
type RoutingAPI interface {
	Route(ctx context.Context, waypoints []dtos.Waypoint, profile string, options map[string]any) (*dtos.RoutingPath, error)
}

// RouteStore is the persistence contract for routes. FindByCacheKey, FindByID
// and Replace return (nil, nil) on absence; Insert resolves the concurrent
// duplicate race by returning the existing row for the same cache key.
type RouteStore interface {
	FindByCacheKey(ctx context.Context, cacheKey string) (*entities.Route, error)
	FindByID(ctx context.Context, id string) (*entities.Route, error)
	ListForProject(ctx context.Context, projectID string, limit, offset int) ([]entities.Route, error)
	Insert(ctx context.Context, route *entities.Route) (*entities.Route, error)
	Replace(ctx context.Context, id, projectID string, route *entities.Route) (*entities.Route, error)
}

// RouteService coordinates caching, persistence and routing engine
// interaction. Constructed once at startup with explicit configuration and
// injected into handlers; it holds no mutable state of its own.
type RouteService struct {
	store        RouteStore
	routing      RoutingAPI
	graphVersion string
	metrics      *metrics.MetricsRegistry
}

func NewRouteService(store RouteStore, routing RoutingAPI, graphVersion string, reg *metrics.MetricsRegistry) *RouteService {
	return &RouteService{
		store:        store,
		routing:      routing,
		graphVersion: graphVersion,
		metrics:      reg,
	}
}

// GraphVersion returns the routing graph version this service stamps on new
// routes.
func (s *RouteService) GraphVersion() string {
	return s.graphVersion
}

// ComputeAndStore calculates a route and persists it, answering from the
// durable cache when an identical request was already computed. Under a race
// two requests may both call the engine, but the store's unique cache_key
// constraint collapses them to one row.
func (s *RouteService) ComputeAndStore(ctx context.Context, projectID string, in dtos.RouteIn) (*entities.Route, error) {
	if err := ValidateRouteIn(in); err != nil {
		return nil, err
	}
	profile := in.Profile
	if profile == "" {
		profile = DefaultProfile
	}

	cacheKey := RouteHash(in.Waypoints, profile, in.Options, s.graphVersion)
	cached, err := s.store.FindByCacheKey(ctx, cacheKey)
	if err != nil {
		return nil, fmt.Errorf("cache lookup: %w", err)
	}
	if cached != nil {
		if s.metrics != nil {
			s.metrics.RouteCacheHitsTotal.Inc()
		}
		return cached, nil
	}
	if s.metrics != nil {
		s.metrics.RouteCacheMissesTotal.Inc()
	}

	path, err := s.callRouting(ctx, in.Waypoints, profile, in.Options)
	if err != nil {
		return nil, err
	}

	line, err := BuildLine(path)
	if err != nil {
		return nil, err
	}
	geomWKB, err := MarshalGeometry(line)
	if err != nil {
		return nil, err
	}
	bboxWKB, err := MarshalGeometry(BuildBbox(line))
	if err != nil {
		return nil, err
	}
	details, err := json.Marshal(BuildDetails(path))
	if err != nil {
		return nil, fmt.Errorf("encoding details: %w", err)
	}

	route := &entities.Route{
		ProjectID:    projectID,
		Profile:      profile,
		GraphVersion: s.graphVersion,
		DistanceM:    path.Distance,
		DurationMs:   path.Time,
		Geom:         geomWKB,
		Bbox:         bboxWKB,
		Details:      details,
		CacheKey:     cacheKey,
	}
	return s.store.Insert(ctx, route)
}

// CalculateOnly runs the same derivation and engine pipeline but returns a
// transient GeoJSON Feature and never writes to the store. The feature's
// properties carry everything needed to later confirm and persist the route.
func (s *RouteService) CalculateOnly(ctx context.Context, in dtos.RouteIn) (*dtos.RouteFeature, error) {
	if err := ValidateRouteIn(in); err != nil {
		return nil, err
	}
	profile := in.Profile
	if profile == "" {
		profile = DefaultProfile
	}

	cacheKey := RouteHash(in.Waypoints, profile, in.Options, s.graphVersion)

	path, err := s.callRouting(ctx, in.Waypoints, profile, in.Options)
	if err != nil {
		return nil, err
	}

	line, err := BuildLine(path)
	if err != nil {
		return nil, err
	}
	bounds := line.Bounds()

	return &dtos.RouteFeature{
		Type: "Feature",
		Geometry: dtos.FeatureGeometry{
			Type:        "LineString",
			Coordinates: lineCoordinates(line),
		},
		Properties: map[string]any{
			"distance_m":    path.Distance,
			"duration_ms":   path.Time,
			"profile":       profile,
			"graph_version": s.graphVersion,
			"bbox":          []float64{bounds.Min(0), bounds.Min(1), bounds.Max(0), bounds.Max(1)},
			"details":       BuildDetails(path),
			"cache_key":     cacheKey,
		},
	}, nil
}

// ConfirmAndStore persists a previously calculated Feature as a new route for
// the project. The cache key embedded in the feature is trusted; the same
// insert dedup applies as in ComputeAndStore.
func (s *RouteService) ConfirmAndStore(ctx context.Context, projectID string, feature dtos.RouteFeature) (*entities.Route, error) {
	parts, err := s.FeatureToParts(feature)
	if err != nil {
		return nil, err
	}
	route, err := s.partsToRoute(projectID, parts)
	if err != nil {
		return nil, err
	}
	return s.store.Insert(ctx, route)
}

// ConfirmAndReplace overwrites an existing route's geometry and metadata
// in-place. The project id is immutable: a mismatched route/project pair is
// reported as not found and the row is never touched.
func (s *RouteService) ConfirmAndReplace(ctx context.Context, projectID, routeID string, feature dtos.RouteFeature) (*entities.Route, error) {
	parts, err := s.FeatureToParts(feature)
	if err != nil {
		return nil, err
	}
	route, err := s.partsToRoute(projectID, parts)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Replace(ctx, routeID, projectID, route)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrRouteNotFound
	}
	return updated, nil
}

// ListForProject returns the project's routes ordered by ascending distance.
func (s *RouteService) ListForProject(ctx context.Context, projectID string, limit, offset int) ([]entities.Route, error) {
	return s.store.ListForProject(ctx, projectID, limit, offset)
}

// GetByID fetches a single persisted route.
func (s *RouteService) GetByID(ctx context.Context, routeID string) (*entities.Route, error) {
	route, err := s.store.FindByID(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, ErrRouteNotFound
	}
	return route, nil
}

func (s *RouteService) callRouting(ctx context.Context, waypoints []dtos.Waypoint, profile string, options map[string]any) (*dtos.RoutingPath, error) {
	start := time.Now()
	path, err := s.routing.Route(ctx, waypoints, profile, options)
	if s.metrics != nil {
		s.metrics.RoutingCallsTotal.WithLabelValues(routingOutcome(err)).Inc()
		s.metrics.RoutingCallDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		logging.Warn("routing engine call failed",
			"profile", profile,
			"waypoints", len(waypoints),
			"error", err.Error(),
		)
		return nil, err
	}
	return path, nil
}

func (s *RouteService) partsToRoute(projectID string, parts *RouteParts) (*entities.Route, error) {
	geomWKB, err := MarshalGeometry(parts.Line)
	if err != nil {
		return nil, err
	}
	bboxWKB, err := MarshalGeometry(parts.Bbox)
	if err != nil {
		return nil, err
	}
	details, err := json.Marshal(parts.Details)
	if err != nil {
		return nil, fmt.Errorf("encoding details: %w", err)
	}

	return &entities.Route{
		ProjectID:    projectID,
		Profile:      parts.Profile,
		GraphVersion: parts.GraphVersion,
		DistanceM:    parts.DistanceM,
		DurationMs:   parts.DurationMs,
		Geom:         geomWKB,
		Bbox:         bboxWKB,
		Details:      details,
		CacheKey:     parts.CacheKey,
	}, nil
}

// ValidateRouteIn rejects malformed input before any network or store call.
func ValidateRouteIn(in dtos.RouteIn) error {
	if len(in.Waypoints) < 2 {
		return &ValidationError{Message: "at least two waypoints are required"}
	}
	for _, wp := range in.Waypoints {
		if wp.Lat < -90 || wp.Lat > 90 {
			return &ValidationError{Message: fmt.Sprintf("latitude %v out of range", wp.Lat)}
		}
		if wp.Lon < -180 || wp.Lon > 180 {
			return &ValidationError{Message: fmt.Sprintf("longitude %v out of range", wp.Lon)}
		}
	}
	return nil
}

func routingOutcome(err error) string {
	var noPath *NoPathError
	var upstream *UpstreamError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &noPath):
		return "no_path"
	case errors.As(err, &upstream):
		return "upstream_error"
	default:
		return "error"
	}
}
