package services

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"raildash/internal/models/dtos"
	gormModels "raildash/internal/models/gorm"
)

const projectGroupsCacheKey = "project_groups:all"

// ProjectStore is the persistence contract for projects.
type ProjectStore interface {
	GetByID(ctx context.Context, id string) (*gormModels.Project, error)
	List(ctx context.Context, limit, offset int) ([]gormModels.Project, error)
	Create(ctx context.Context, project *gormModels.Project) (*gormModels.Project, error)
	Update(ctx context.Context, project *gormModels.Project) (*gormModels.Project, error)
}

// ProjectGroupStore is the persistence contract for project groups.
type ProjectGroupStore interface {
	GetByID(ctx context.Context, id string) (*gormModels.ProjectGroup, error)
	List(ctx context.Context) ([]gormModels.ProjectGroup, error)
	Create(ctx context.Context, group *gormModels.ProjectGroup) (*gormModels.ProjectGroup, error)
	Update(ctx context.Context, group *gormModels.ProjectGroup) (*gormModels.ProjectGroup, error)
}

// ProjectService wraps project and group CRUD. Group listings change rarely
// and back the map's filter drawer, so they are served from a short-lived
// in-memory cache that create/update invalidate.
type ProjectService struct {
	projects ProjectStore
	groups   ProjectGroupStore
	cache    *cache.Cache
}

func NewProjectService(projects ProjectStore, groups ProjectGroupStore) *ProjectService {
	return &ProjectService{
		projects: projects,
		groups:   groups,
		cache:    cache.New(60*time.Second, 10*time.Minute),
	}
}

func (s *ProjectService) GetProject(ctx context.Context, id string) (*dtos.ProjectOut, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}
	out := toProjectOut(project)
	return &out, nil
}

func (s *ProjectService) ListProjects(ctx context.Context, limit, offset int) ([]dtos.ProjectOut, error) {
	projects, err := s.projects.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dtos.ProjectOut, 0, len(projects))
	for i := range projects {
		out = append(out, toProjectOut(&projects[i]))
	}
	return out, nil
}

func (s *ProjectService) CreateProject(ctx context.Context, in dtos.ProjectIn) (*dtos.ProjectOut, error) {
	if in.Name == "" || in.ProjectNumber == "" {
		return nil, &ValidationError{Message: "name and project_number are required"}
	}

	project := &gormModels.Project{
		Name:              in.Name,
		ProjectNumber:     in.ProjectNumber,
		SuperiorProjectID: in.SuperiorProjectID,
		Description:       in.Description,
		LengthKm:          in.LengthKm,
		Groups:            groupRefs(in.GroupIDs),
	}
	created, err := s.projects.Create(ctx, project)
	if err != nil {
		return nil, err
	}
	out := toProjectOut(created)
	return &out, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, id string, in dtos.ProjectIn) (*dtos.ProjectOut, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}

	project.Name = in.Name
	project.ProjectNumber = in.ProjectNumber
	project.SuperiorProjectID = in.SuperiorProjectID
	project.Description = in.Description
	project.LengthKm = in.LengthKm
	project.Groups = groupRefs(in.GroupIDs)

	updated, err := s.projects.Update(ctx, project)
	if err != nil {
		return nil, err
	}
	out := toProjectOut(updated)
	return &out, nil
}

func (s *ProjectService) ListGroups(ctx context.Context) ([]dtos.ProjectGroupOut, error) {
	if cached, found := s.cache.Get(projectGroupsCacheKey); found {
		return cached.([]dtos.ProjectGroupOut), nil
	}

	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dtos.ProjectGroupOut, 0, len(groups))
	for i := range groups {
		out = append(out, toGroupOut(&groups[i]))
	}

	s.cache.Set(projectGroupsCacheKey, out, cache.DefaultExpiration)
	return out, nil
}

func (s *ProjectService) GetGroup(ctx context.Context, id string) (*dtos.ProjectGroupOut, error) {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, nil
	}
	out := toGroupOut(group)
	return &out, nil
}

func (s *ProjectService) CreateGroup(ctx context.Context, in dtos.ProjectGroupIn) (*dtos.ProjectGroupOut, error) {
	if in.Name == "" || in.ShortName == "" {
		return nil, &ValidationError{Message: "name and short_name are required"}
	}

	group := &gormModels.ProjectGroup{
		Name:        in.Name,
		ShortName:   in.ShortName,
		Description: in.Description,
		Public:      in.Public,
		Color:       in.Color,
	}
	created, err := s.groups.Create(ctx, group)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(projectGroupsCacheKey)
	out := toGroupOut(created)
	return &out, nil
}

func (s *ProjectService) UpdateGroup(ctx context.Context, id string, in dtos.ProjectGroupIn) (*dtos.ProjectGroupOut, error) {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, nil
	}

	group.Name = in.Name
	group.ShortName = in.ShortName
	group.Description = in.Description
	group.Public = in.Public
	group.Color = in.Color

	updated, err := s.groups.Update(ctx, group)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(projectGroupsCacheKey)
	out := toGroupOut(updated)
	return &out, nil
}

func groupRefs(ids []string) []gormModels.ProjectGroup {
	if ids == nil {
		return nil
	}
	groups := make([]gormModels.ProjectGroup, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, gormModels.ProjectGroup{ID: id})
	}
	return groups
}

func toProjectOut(project *gormModels.Project) dtos.ProjectOut {
	groupIDs := make([]string, 0, len(project.Groups))
	for _, group := range project.Groups {
		groupIDs = append(groupIDs, group.ID)
	}
	return dtos.ProjectOut{
		ID:                project.ID,
		Name:              project.Name,
		ProjectNumber:     project.ProjectNumber,
		SuperiorProjectID: project.SuperiorProjectID,
		Description:       project.Description,
		LengthKm:          project.LengthKm,
		GroupIDs:          groupIDs,
	}
}

func toGroupOut(group *gormModels.ProjectGroup) dtos.ProjectGroupOut {
	return dtos.ProjectGroupOut{
		ID:          group.ID,
		Name:        group.Name,
		ShortName:   group.ShortName,
		Description: group.Description,
		Public:      group.Public,
		Color:       group.Color,
	}
}
