package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"raildash/internal/config"
	"raildash/internal/db"
	"raildash/internal/logging"
	"raildash/internal/metrics"
	"raildash/internal/routes"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	settings, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := logging.Init(settings.AppEnv); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Raildash starting up",
		"environment", settings.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	dsn := settings.DSN()

	// Connect to DB with sqlx
	if err := db.InitPostgres(dsn); err != nil {
		logging.Error("Failed to connect to Postgres (sqlx)", "error", err.Error())
		log.Fatalf("failed to connect to Postgres (sqlx): %v", err)
	}
	logging.Info("Connected to Postgres (sqlx)")

	// Connect to DB with GORM
	if _, err := db.InitPostgresORM(dsn); err != nil {
		logging.Error("Failed to connect to Postgres (GORM)", "error", err.Error())
		log.Fatalf("failed to connect to Postgres (GORM): %v", err)
	}
	logging.Info("Connected to Postgres (GORM)")

	upSince := time.Now()

	metricsReg := metrics.NewMetricsRegistry()
	router := routes.RegisterRoutes(settings, metricsReg, upSince)

	// Metrics endpoint lives outside the Chi router so it skips the
	// request middleware chain.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)

	addr := ":" + settings.Port
	logging.Info("Server starting", "addr", addr, "environment", settings.AppEnv)

	log.Fatal(http.ListenAndServe(addr, mux))
}
