package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"raildash/internal/constants"
	"raildash/internal/models/entities"
)

const (
	maxRouteListLimit     = 100
	defaultRouteListLimit = 50
)

// RouteRepository is the sqlx-backed route store. Absent rows are reported as
// (nil, nil); callers decide whether absence is an error.
type RouteRepository struct {
	db *sqlx.DB
}

func NewRouteRepository(db *sqlx.DB) *RouteRepository {
	return &RouteRepository{db}
}

func (r *RouteRepository) FindByCacheKey(ctx context.Context, cacheKey string) (*entities.Route, error) {
	var route entities.Route
	err := r.db.GetContext(ctx, &route, constants.GetRouteByCacheKey, cacheKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find route by cache key: %w", err)
	}
	return &route, nil
}

func (r *RouteRepository) FindByID(ctx context.Context, id string) (*entities.Route, error) {
	var route entities.Route
	err := r.db.GetContext(ctx, &route, constants.GetRouteByID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find route by id: %w", err)
	}
	return &route, nil
}

func (r *RouteRepository) ListForProject(ctx context.Context, projectID string, limit, offset int) ([]entities.Route, error) {
	limit, offset = clampPage(limit, offset)

	routes := []entities.Route{}
	err := r.db.SelectContext(ctx, &routes, constants.ListRoutesForProject, projectID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list routes for project: %w", err)
	}
	return routes, nil
}

// Insert persists the route, generating its id. When a concurrent identical
// request won the insert race on cache_key, the uniqueness violation is not
// propagated: the existing row is re-read and returned, so all callers
// converge on one persisted route.
func (r *RouteRepository) Insert(ctx context.Context, route *entities.Route) (*entities.Route, error) {
	if route.ID == "" {
		route.ID = uuid.NewString()
	}

	var inserted entities.Route
	err := r.db.QueryRowxContext(ctx, constants.InsertRoute,
		route.ID,
		route.ProjectID,
		route.Profile,
		route.GraphVersion,
		route.DistanceM,
		route.DurationMs,
		route.Geom,
		route.Bbox,
		route.Details,
		route.CacheKey,
	).StructScan(&inserted)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			existing, findErr := r.FindByCacheKey(ctx, route.CacheKey)
			if findErr != nil {
				return nil, findErr
			}
			if existing != nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("insert route: %w", err)
	}
	return &inserted, nil
}

// Replace overwrites the route's geometry and metadata in place. Returns
// (nil, nil) when no row matches both id and project id; project_id itself is
// never updated.
func (r *RouteRepository) Replace(ctx context.Context, id, projectID string, route *entities.Route) (*entities.Route, error) {
	var updated entities.Route
	err := r.db.QueryRowxContext(ctx, constants.ReplaceRoute,
		id,
		projectID,
		route.Profile,
		route.GraphVersion,
		route.DistanceM,
		route.DurationMs,
		route.Geom,
		route.Bbox,
		route.Details,
		route.CacheKey,
	).StructScan(&updated)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("replace route: %w", err)
	}
	return &updated, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultRouteListLimit
	}
	if limit > maxRouteListLimit {
		limit = maxRouteListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
