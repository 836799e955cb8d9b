package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/careops/clinic-api/internal/repository/postgres"
	"github.com/careops/clinic-api/internal/worker"
	"github.com/careops/clinic-api/pkg/logger"
	"github.com/careops/clinic-api/pkg/metrics"
)

// workerConfig is environment-only; the cleanup worker runs headless and has
// no use for the API's yaml file.
type workerConfig struct {
	DatabaseURL     string        `envconfig:"DATABASE_URL" required:"true"`
	RetentionDays   int           `envconfig:"RETENTION_DAYS" default:"30"`
	CleanupInterval time.Duration `envconfig:"CLEANUP_INTERVAL" default:"1h"`
	HealthPort      int           `envconfig:"HEALTH_PORT" default:"8081"`
}

func main() {
	_ = godotenv.Load()

	var cfg workerConfig
	if err := envconfig.Process("clinic_worker", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.NewLogger(nil).WithFields(map[string]interface{}{"component": "cleanup-worker"})

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	m := metrics.NewMetrics("clinic_worker")
	notificationRepo := postgres.NewNotificationRepository(db)

	cleanup := worker.NewNotificationCleanupWorker(
		notificationRepo,
		cfg.RetentionDays,
		cfg.CleanupInterval,
		appLogger.Zerolog(),
		m,
	)

	startHealthServer(cfg.HealthPort, db, appLogger.Zerolog())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("shutting down")
		cancel()
	}()

	cleanup.Start(ctx)
}

func startHealthServer(port int, db *sqlx.DB, zl *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			zl.Error().Err(err).Msg("health server failed")
			os.Exit(1)
		}
	}()
}
