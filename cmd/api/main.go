package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/careops/clinic-api/internal/config"
	"github.com/careops/clinic-api/internal/email"
	"github.com/careops/clinic-api/internal/handler"
	analyticsHandler "github.com/careops/clinic-api/internal/handler/analytics"
	appointmentHandler "github.com/careops/clinic-api/internal/handler/appointment"
	attendanceHandler "github.com/careops/clinic-api/internal/handler/attendance"
	authHandler "github.com/careops/clinic-api/internal/handler/auth"
	notificationHandler "github.com/careops/clinic-api/internal/handler/notification"
	scheduleHandler "github.com/careops/clinic-api/internal/handler/schedule"
	staffHandler "github.com/careops/clinic-api/internal/handler/staff"
	"github.com/careops/clinic-api/internal/middleware"
	"github.com/careops/clinic-api/internal/repository/postgres"
	"github.com/careops/clinic-api/internal/router"
	analyticsService "github.com/careops/clinic-api/internal/service/analytics"
	appointmentService "github.com/careops/clinic-api/internal/service/appointment"
	attendanceService "github.com/careops/clinic-api/internal/service/attendance"
	authService "github.com/careops/clinic-api/internal/service/auth"
	notificationService "github.com/careops/clinic-api/internal/service/notification"
	scheduleService "github.com/careops/clinic-api/internal/service/schedule"
	staffService "github.com/careops/clinic-api/internal/service/staff"
	jwtauth "github.com/careops/clinic-api/pkg/auth"
	"github.com/careops/clinic-api/pkg/logger"
	"github.com/careops/clinic-api/pkg/messaging"
	redisbroker "github.com/careops/clinic-api/pkg/messaging/redis"
	"github.com/careops/clinic-api/pkg/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	zl := appLogger.Zerolog()

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	// The broker is optional; without redis the API runs with fanout off.
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisbroker.NewBroker(redisbroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, zl)
		if err != nil {
			appLogger.Fatal(err, "failed to connect to redis")
		}
		defer broker.Close()
	} else {
		appLogger.Warn("redis not configured, notification fanout disabled")
	}

	m := metrics.NewMetrics("clinic")

	appointmentRepo := postgres.NewAppointmentRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	attendanceRepo := postgres.NewAttendanceRepository(db)
	staffRepo := postgres.NewStaffRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)

	jwtSvc := jwtauth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	emailSvc := email.NewSMTPService(cfg.SMTP)

	notifSvc := notificationService.NewService(notificationRepo, broker, notificationService.Config{
		CallTimeout:   cfg.Notification.CallTimeout,
		FanoutChannel: cfg.Notification.FanoutChannel,
	}, zl, m)
	appointmentSvc := appointmentService.NewService(appointmentRepo, notifSvc, zl, m)
	attendanceSvc := attendanceService.NewService(attendanceRepo)
	staffSvc := staffService.NewService(staffRepo, emailSvc, zl)
	scheduleSvc := scheduleService.NewService(scheduleRepo)
	authSvc := authService.NewService(staffRepo, jwtSvc)
	analyticsSvc := analyticsService.NewService(appointmentRepo, attendanceRepo, notificationRepo)

	// Broadcast-scope badge count for the admin dashboard.
	poller := notificationService.NewPoller(notifSvc, nil, cfg.Notification.PollInterval, zl, m)

	h := handler.NewHandler(db)
	r := router.NewRouter(
		authSvc,
		authHandler.NewHandler(authSvc),
		appointmentHandler.NewHandler(appointmentSvc, staffSvc),
		notificationHandler.NewHandler(notifSvc, poller),
		attendanceHandler.NewHandler(attendanceSvc),
		scheduleHandler.NewHandler(scheduleSvc),
		staffHandler.NewHandler(staffSvc),
		analyticsHandler.NewHandler(analyticsSvc),
		h,
		router.Config{
			RateLimit:     rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "clinic_api",
		},
	)
	r.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err, "server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	appLogger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(err, "graceful shutdown failed")
	}
}
