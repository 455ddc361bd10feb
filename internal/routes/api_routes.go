package routes

import (
	"github.com/go-chi/chi/v5"

	"raildash/internal/api"
	"raildash/internal/middleware"
)

// RegisterAPIRoutes mounts the versioned API surface.
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies) {

	secret := deps.Settings.JWTSecret

	r.Route("/api/v1", func(r chi.Router) {

		// public
		r.Post("/auth/login", api.LoginHandler(deps.Services.Auth))

		// authenticated
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(secret))

			// stateless route calculation (no persistence)
			r.Post("/routes/calculate", api.CalculateRouteHandler(deps.Services.Routes))

			// shortest path over the operational-point network
			r.Post("/route", api.FindSectionRouteHandler(deps.Services.Infra))

			r.Get("/routes/{routeID}", api.GetRouteHandler(deps.Services.Routes))

			r.Get("/projects", api.ListProjectsHandler(deps.Services.Projects))
			r.Get("/projects/{projectID}", api.GetProjectHandler(deps.Services.Projects))
			r.Get("/projects/{projectID}/routes", api.ListRoutesHandler(deps.Services.Routes))

			r.Get("/project-groups", api.ListProjectGroupsHandler(deps.Services.Projects))
			r.Get("/project-groups/{groupID}", api.GetProjectGroupHandler(deps.Services.Projects))

			// mutations require editor role
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEditor)

				r.Post("/projects", api.CreateProjectHandler(deps.Services.Projects))
				r.Put("/projects/{projectID}", api.UpdateProjectHandler(deps.Services.Projects))

				r.Post("/project-groups", api.CreateProjectGroupHandler(deps.Services.Projects))
				r.Put("/project-groups/{groupID}", api.UpdateProjectGroupHandler(deps.Services.Projects))

				r.Post("/projects/{projectID}/routes", api.ConfirmRouteHandler(deps.Services.Routes))
				r.Put("/projects/{projectID}/routes/{routeID}", api.ReplaceRouteHandler(deps.Services.Routes))
				r.Post("/projects/{projectID}/routes/compute", api.ComputeRouteHandler(deps.Services.Routes))
			})
		})
	})
}
