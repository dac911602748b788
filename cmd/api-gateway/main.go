package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-absence-api/api/swagger"
	"github.com/noah-isme/sma-absence-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-absence-api/internal/middleware"
	"github.com/noah-isme/sma-absence-api/internal/models"
	"github.com/noah-isme/sma-absence-api/internal/repository"
	"github.com/noah-isme/sma-absence-api/internal/service"
	"github.com/noah-isme/sma-absence-api/pkg/cache"
	"github.com/noah-isme/sma-absence-api/pkg/config"
	"github.com/noah-isme/sma-absence-api/pkg/database"
	"github.com/noah-isme/sma-absence-api/pkg/jobs"
	"github.com/noah-isme/sma-absence-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-absence-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-absence-api/pkg/middleware/requestid"
)

const cachePrefix = "absence:"

// @title SMA Absence API
// @version 1.0.0
// @description Daily absence tracking for school sections, divisions and classes
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	location, err := time.LoadLocation(cfg.School.Timezone)
	if err != nil {
		logr.Sugar().Warnw("unknown school timezone, using local time", "timezone", cfg.School.Timezone, "error", err)
		location = time.Local
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	source := newSource(cfg, logr)
	cacheRepo, closeCache := newCacheRepository(ctx, cfg, logr)
	defer closeCache()
	var cacheSvc *service.CacheService
	if cacheRepo != nil {
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.SnapshotTTL, logr)
	}

	auditSvc := newAuditService(ctx, cfg, metricsSvc, logr)
	auditSvc.Start(ctx)
	defer auditSvc.Stop()

	dataSvc := service.NewSchoolDataService(service.SchoolDataServiceParams{
		Source:  source,
		Cache:   cacheSvc,
		Metrics: metricsSvc,
		Logger:  logr,
	})
	rosterSvc := service.NewRosterService(dataSvc)
	attendanceSvc := service.NewAttendanceService(service.AttendanceServiceParams{
		Store:     dataSvc,
		Audit:     auditSvc,
		Metrics:   metricsSvc,
		Validator: validate,
		Logger:    logr,
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Data:      dataSvc,
		Validator: validate,
		Location:  location,
	})
	reportSvc := service.NewReportService(service.ReportServiceParams{
		Data:      dataSvc,
		Validator: validate,
		Logger:    logr,
		Config: service.ReportServiceConfig{
			DefaultDays: cfg.School.ReportDefaultDays,
			Location:    location,
		},
	})
	authSvc, err := service.NewAuthService(service.AuthConfig{
		DivisionPasswords: cfg.Access.DivisionPasswords,
		MasterPassword:    cfg.Access.MasterPassword,
		FallbackPassword:  cfg.Access.FallbackPassword,
		TokenSecret:       cfg.JWT.Secret,
		TokenExpiry:       cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	}, validate, auditSvc, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init auth service", "error", err)
	}

	go func() {
		status := dataSvc.Load(ctx)
		logr.Sugar().Infow("school data loaded",
			"source", status.Source,
			"students", status.Students,
			"attendance", status.Attendance,
			"last_error", status.LastError,
		)
	}()

	rosterHandler := handler.NewRosterHandler(rosterSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc, dashboardSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	dataHandler := handler.NewDataHandler(dataSvc, auditSvc)
	auditHandler := handler.NewAuditHandler(auditSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc.Handler())

	probes := []string{"/health", "/ready", "/metrics"}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, probes...))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc, probes...))

	r.GET("/health", dataHandler.Health)
	r.GET("/ready", dataHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.WithResponseMeta(func() models.DataSourceKind {
		return dataSvc.Status().Source
	}))
	api.POST("/auth/division", authHandler.Division)
	api.GET("/data/status", dataHandler.Status)

	jwt := internalmiddleware.JWT(authSvc)
	api.POST("/data/refresh", jwt, dataHandler.Refresh)
	api.GET("/audit", jwt, auditHandler.Recent)

	ready := api.Group("")
	ready.Use(internalmiddleware.RequireReady(dataSvc))
	ready.GET("/sections/:section/divisions", rosterHandler.Divisions)
	ready.GET("/sections/:section/divisions/:division/classes", rosterHandler.Classes)
	ready.GET("/students", rosterHandler.Students)
	ready.GET("/students/:id", rosterHandler.Student)
	ready.GET("/attendance/absent-keys", attendanceHandler.AbsentKeys)
	ready.POST("/attendance", jwt, attendanceHandler.Submit)
	ready.DELETE("/attendance/:studentId/:date", jwt, attendanceHandler.Delete)
	ready.GET("/dashboard", dashboardHandler.Summary)
	ready.GET("/reports/absences", reportHandler.Absences)
	ready.GET("/reports/absences/export", reportHandler.Export)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "source", source.Kind())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// newSource picks the sheet when a deployment URL is configured and falls
// back to the bundled sample data otherwise.
func newSource(cfg *config.Config, logr *zap.Logger) service.SchoolDataSource {
	if cfg.Sheet.URL == "" {
		logr.Warn("SHEET_URL not set, serving sample data")
		return repository.NewSampleRepository(cfg.Sheet.MockDelay)
	}
	sheet, err := repository.NewSheetRepository(cfg.Sheet.URL, cfg.Sheet.Timeout, logr)
	if err != nil {
		logr.Error("invalid SHEET_URL, serving sample data", zap.Error(err))
		return repository.NewSampleRepository(cfg.Sheet.MockDelay)
	}
	return sheet
}

func newCacheRepository(ctx context.Context, cfg *config.Config, logr *zap.Logger) (service.CacheRepository, func()) {
	noop := func() {}
	switch cfg.Cache.Driver {
	case config.CacheDriverNone:
		return nil, noop
	case config.CacheDriverRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, falling back to memory cache", zap.Error(err))
			break
		}
		repo := repository.NewCacheRepository(client, cachePrefix, logr)
		return repo, func() { _ = repo.Close() }
	case config.CacheDriverMemory:
	default:
		logr.Warn("unknown cache driver, using memory", zap.String("driver", cfg.Cache.Driver))
	}
	return repository.NewMemoryCacheRepository(cache.NewMemory(cfg.Cache.SnapshotTTL)), noop
}

func newAuditService(ctx context.Context, cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) *service.AuditService {
	queueCfg := jobs.QueueConfig{
		Workers:    cfg.Audit.Workers,
		MaxRetries: cfg.Audit.Retries,
		RetryDelay: time.Second,
		Logger:     logr,
	}
	if !cfg.Audit.Enabled {
		return service.NewAuditService(nil, metrics, logr, queueCfg)
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Error("audit database unavailable, audit disabled", zap.Error(err))
		return service.NewAuditService(nil, metrics, logr, queueCfg)
	}
	if err := database.Migrate(ctx, db); err != nil {
		logr.Error("audit migration failed, audit disabled", zap.Error(err))
		_ = db.Close()
		return service.NewAuditService(nil, metrics, logr, queueCfg)
	}
	return service.NewAuditService(repository.NewAuditRepository(db), metrics, logr, queueCfg)
}
