package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	gormModels "raildash/internal/models/gorm"
)

// ProjectRepositoryGORM handles project CRUD through GORM.
type ProjectRepositoryGORM struct {
	db *gorm.DB
}

func NewProjectRepositoryGORM(db *gorm.DB) *ProjectRepositoryGORM {
	return &ProjectRepositoryGORM{db: db}
}

func (r *ProjectRepositoryGORM) GetByID(ctx context.Context, id string) (*gormModels.Project, error) {
	var project gormModels.Project
	err := r.db.WithContext(ctx).Preload("Groups").Where("id = ?", id).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch project: %w", err)
	}
	return &project, nil
}

func (r *ProjectRepositoryGORM) List(ctx context.Context, limit, offset int) ([]gormModels.Project, error) {
	limit, offset = clampPage(limit, offset)

	var projects []gormModels.Project
	err := r.db.WithContext(ctx).
		Preload("Groups").
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepositoryGORM) Create(ctx context.Context, project *gormModels.Project) (*gormModels.Project, error) {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("project number %s already exists", project.ProjectNumber)
		}
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

func (r *ProjectRepositoryGORM) Update(ctx context.Context, project *gormModels.Project) (*gormModels.Project, error) {
	if err := r.db.WithContext(ctx).Save(project).Error; err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if project.Groups != nil {
		if err := r.db.WithContext(ctx).Model(project).Association("Groups").Replace(project.Groups); err != nil {
			return nil, fmt.Errorf("update project groups: %w", err)
		}
	}
	return project, nil
}

// ProjectGroupRepositoryGORM handles project group CRUD through GORM.
type ProjectGroupRepositoryGORM struct {
	db *gorm.DB
}

func NewProjectGroupRepositoryGORM(db *gorm.DB) *ProjectGroupRepositoryGORM {
	return &ProjectGroupRepositoryGORM{db: db}
}

func (r *ProjectGroupRepositoryGORM) GetByID(ctx context.Context, id string) (*gormModels.ProjectGroup, error) {
	var group gormModels.ProjectGroup
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch project group: %w", err)
	}
	return &group, nil
}

func (r *ProjectGroupRepositoryGORM) List(ctx context.Context) ([]gormModels.ProjectGroup, error) {
	var groups []gormModels.ProjectGroup
	if err := r.db.WithContext(ctx).Order("id").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("list project groups: %w", err)
	}
	return groups, nil
}

func (r *ProjectGroupRepositoryGORM) Create(ctx context.Context, group *gormModels.ProjectGroup) (*gormModels.ProjectGroup, error) {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("project group short name %s already exists", group.ShortName)
		}
		return nil, fmt.Errorf("create project group: %w", err)
	}
	return group, nil
}

func (r *ProjectGroupRepositoryGORM) Update(ctx context.Context, group *gormModels.ProjectGroup) (*gormModels.ProjectGroup, error) {
	if err := r.db.WithContext(ctx).Save(group).Error; err != nil {
		return nil, fmt.Errorf("update project group: %w", err)
	}
	return group, nil
}
