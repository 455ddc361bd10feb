package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"raildash/internal/models/entities"
	gormModels "raildash/internal/models/gorm"
)

// RouteRepositoryGORM is the GORM-backed route store. It implements the same
// contract as RouteRepository and backs the sqlite deployments and tests.
// Requires gorm.Config{TranslateError: true} so unique violations surface as
// gorm.ErrDuplicatedKey on every driver.
type RouteRepositoryGORM struct {
	db *gorm.DB
}

func NewRouteRepositoryGORM(db *gorm.DB) *RouteRepositoryGORM {
	return &RouteRepositoryGORM{db: db}
}

func (r *RouteRepositoryGORM) FindByCacheKey(ctx context.Context, cacheKey string) (*entities.Route, error) {
	var row gormModels.Route
	err := r.db.WithContext(ctx).Where("cache_key = ?", cacheKey).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find route by cache key: %w", err)
	}
	return toRouteEntity(&row), nil
}

func (r *RouteRepositoryGORM) FindByID(ctx context.Context, id string) (*entities.Route, error) {
	var row gormModels.Route
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find route by id: %w", err)
	}
	return toRouteEntity(&row), nil
}

func (r *RouteRepositoryGORM) ListForProject(ctx context.Context, projectID string, limit, offset int) ([]entities.Route, error) {
	limit, offset = clampPage(limit, offset)

	var rows []gormModels.Route
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("distance_m").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list routes for project: %w", err)
	}

	routes := make([]entities.Route, 0, len(rows))
	for i := range rows {
		routes = append(routes, *toRouteEntity(&rows[i]))
	}
	return routes, nil
}

func (r *RouteRepositoryGORM) Insert(ctx context.Context, route *entities.Route) (*entities.Route, error) {
	if route.ID == "" {
		route.ID = uuid.NewString()
	}

	row := fromRouteEntity(route)
	err := r.db.WithContext(ctx).Create(row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		existing, findErr := r.FindByCacheKey(ctx, route.CacheKey)
		if findErr != nil {
			return nil, findErr
		}
		if existing != nil {
			return existing, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("insert route: %w", err)
	}
	return toRouteEntity(row), nil
}

func (r *RouteRepositoryGORM) Replace(ctx context.Context, id, projectID string, route *entities.Route) (*entities.Route, error) {
	var row gormModels.Route
	err := r.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", id, projectID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("replace route lookup: %w", err)
	}

	row.Profile = route.Profile
	row.GraphVersion = route.GraphVersion
	row.DistanceM = route.DistanceM
	row.DurationMs = route.DurationMs
	row.Geom = route.Geom
	row.Bbox = route.Bbox
	row.Details = route.Details
	row.CacheKey = route.CacheKey

	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, fmt.Errorf("replace route: %w", err)
	}
	return toRouteEntity(&row), nil
}

func toRouteEntity(row *gormModels.Route) *entities.Route {
	return &entities.Route{
		ID:           row.ID,
		ProjectID:    row.ProjectID,
		Profile:      row.Profile,
		GraphVersion: row.GraphVersion,
		DistanceM:    row.DistanceM,
		DurationMs:   row.DurationMs,
		Geom:         row.Geom,
		Bbox:         row.Bbox,
		Details:      row.Details,
		CacheKey:     row.CacheKey,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func fromRouteEntity(route *entities.Route) *gormModels.Route {
	return &gormModels.Route{
		ID:           route.ID,
		ProjectID:    route.ProjectID,
		Profile:      route.Profile,
		GraphVersion: route.GraphVersion,
		DistanceM:    route.DistanceM,
		DurationMs:   route.DurationMs,
		Geom:         route.Geom,
		Bbox:         route.Bbox,
		Details:      route.Details,
		CacheKey:     route.CacheKey,
	}
}
