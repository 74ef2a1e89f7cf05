package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mindflow-health/therapyflow/internal/config"
	v1 "github.com/mindflow-health/therapyflow/internal/handler/v1"
	"github.com/mindflow-health/therapyflow/internal/middleware"
	"github.com/mindflow-health/therapyflow/internal/repository"
	"github.com/mindflow-health/therapyflow/internal/service"
	"github.com/mindflow-health/therapyflow/pkg/auth"
	"github.com/mindflow-health/therapyflow/pkg/database"
	"github.com/mindflow-health/therapyflow/pkg/logger"
	"github.com/mindflow-health/therapyflow/pkg/metrics"
	"github.com/mindflow-health/therapyflow/pkg/tracer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		zlog.Fatal("tracer init failed", zap.Error(err))
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}
	if err := database.Migrate(db, zlog); err != nil {
		zlog.Fatal("database migrate failed", zap.Error(err))
	}
	if cfg.App.SeedDemoData {
		if err := database.SeedDemoData(db, zlog); err != nil {
			zlog.Fatal("demo seed failed", zap.Error(err))
		}
	}

	collector := metrics.NewCollector("therapyflow")
	jwtManager := auth.NewJWTManager(cfg.JWT)

	apptRepo := repository.NewAppointmentRepository(db)
	therapistRepo := repository.NewTherapistRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, collector, zlog)
	defer auditSvc.Shutdown()

	schedulingSvc := service.NewSchedulingService(apptRepo, therapistRepo, auditSvc, zlog)
	authSvc := service.NewAuthService(userRepo, jwtManager, auditSvc, zlog)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	h := v1.New(schedulingSvc, authSvc, collector, zlog)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.AuthRequestsPerSecond, cfg.RateLimit.AuthBurstSize)
	h.RegisterRoutes(router, jwtManager, limiter)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("http server failed", zap.Error(err))
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	zlog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
