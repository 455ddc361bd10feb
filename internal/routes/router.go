package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"raildash/internal/api"
	"raildash/internal/config"
	"raildash/internal/db"
	"raildash/internal/logging"
	"raildash/internal/metrics"
	"raildash/internal/middleware"
)

func RegisterRoutes(settings *config.Settings, metricsReg *metrics.MetricsRegistry, upSince time.Time) http.Handler {

	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))
	r.Use(middleware.RateLimitMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, upSince))

	deps, err := api.InitDependencies(settings, metricsReg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	RegisterAPIRoutes(r, deps)

	return r
}
