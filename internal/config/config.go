package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings holds all runtime configuration for the dashboard backend.
// Values are read once at startup; nothing re-reads the environment later.
type Settings struct {
	AppEnv string
	Port   string

	// Postgres
	PGHost     string
	PGPort     string
	PGUser     string
	PGPassword string
	PGDatabase string

	// Routing engine
	RoutingBaseURL        string
	RoutingTimeoutSeconds int
	GraphVersion          string

	// Auth
	JWTSecret string
}

// Load reads configuration from the environment. A .env file is loaded first
// when present so local development matches the container setup.
func Load() (*Settings, error) {
	_ = godotenv.Load()

	s := &Settings{
		AppEnv:                getEnv("APP_ENV", "development"),
		Port:                  getEnv("PORT", "8080"),
		PGHost:                getEnv("PG_HOST", "localhost"),
		PGPort:                getEnv("PG_PORT", "5432"),
		PGUser:                getEnv("PG_USER", "raildash"),
		PGPassword:            os.Getenv("PG_PASSWORD"),
		PGDatabase:            getEnv("PG_DB", "raildash"),
		RoutingBaseURL:        getEnv("ROUTING_BASE_URL", "http://localhost:8989"),
		GraphVersion:          getEnv("GRAPH_VERSION", "v1"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		RoutingTimeoutSeconds: 20,
	}

	if raw := os.Getenv("ROUTING_TIMEOUT_SECONDS"); raw != "" {
		timeout, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid ROUTING_TIMEOUT_SECONDS %q: %w", raw, err)
		}
		s.RoutingTimeoutSeconds = timeout
	}

	return s, nil
}

// DSN builds the Postgres connection string shared by sqlx and GORM.
func (s *Settings) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		s.PGUser, s.PGPassword, s.PGHost, s.PGPort, s.PGDatabase)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
