package api

import (
	"time"

	"raildash/internal/config"
	"raildash/internal/db"
	"raildash/internal/db/repositories"
	"raildash/internal/metrics"
	"raildash/internal/providers"
	"raildash/internal/services"
)

type Repositories struct {
	Routes        *repositories.RouteRepository
	Infra         *repositories.InfraRepository
	Projects      *repositories.ProjectRepositoryGORM
	ProjectGroups *repositories.ProjectGroupRepositoryGORM
	Users         *repositories.UserRepositoryGORM
}

type Services struct {
	Routes   *services.RouteService
	Infra    *services.InfraRoutingService
	Projects *services.ProjectService
	Auth     *services.AuthService
}

type Dependencies struct {
	Settings *config.Settings
	Repo     *Repositories
	Services *Services
}

// InitDependencies wires repositories, the routing provider and services
// once at startup. The routing provider and route service are constructed
// here with explicit configuration and passed into handlers; no module-level
// mutable state is involved.
func InitDependencies(settings *config.Settings, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		Routes:        repositories.NewRouteRepository(db.DB),
		Infra:         repositories.NewInfraRepository(db.DB),
		Projects:      repositories.NewProjectRepositoryGORM(db.PgDB),
		ProjectGroups: repositories.NewProjectGroupRepositoryGORM(db.PgDB),
		Users:         repositories.NewUserRepositoryGORM(db.PgDB),
	}

	routingProvider := providers.NewRoutingProvider(
		settings.RoutingBaseURL,
		time.Duration(settings.RoutingTimeoutSeconds)*time.Second,
	)

	svcs := &Services{
		Routes:   services.NewRouteService(repos.Routes, routingProvider, settings.GraphVersion, metricsReg),
		Infra:    services.NewInfraRoutingService(repos.Infra),
		Projects: services.NewProjectService(repos.Projects, repos.ProjectGroups),
		Auth:     services.NewAuthService(repos.Users, settings.JWTSecret),
	}

	return &Dependencies{
		Settings: settings,
		Repo:     repos,
		Services: svcs,
	}, nil
}
