package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/share2teach-api/api/swagger"
	"github.com/noah-isme/share2teach-api/internal/handler"
	"github.com/noah-isme/share2teach-api/internal/middleware"
	"github.com/noah-isme/share2teach-api/internal/repository"
	"github.com/noah-isme/share2teach-api/internal/service"
	"github.com/noah-isme/share2teach-api/pkg/cache"
	"github.com/noah-isme/share2teach-api/pkg/config"
	"github.com/noah-isme/share2teach-api/pkg/database"
	"github.com/noah-isme/share2teach-api/pkg/export"
	"github.com/noah-isme/share2teach-api/pkg/jobs"
	"github.com/noah-isme/share2teach-api/pkg/logger"
	"github.com/noah-isme/share2teach-api/pkg/mailer"
	corsmiddleware "github.com/noah-isme/share2teach-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/share2teach-api/pkg/middleware/requestid"
	"github.com/noah-isme/share2teach-api/pkg/objectstore"
	"github.com/noah-isme/share2teach-api/pkg/ratelimit"
	"github.com/noah-isme/share2teach-api/pkg/session"
	"github.com/noah-isme/share2teach-api/pkg/watermark"
)

// @title Share2Teach API
// @version 1.0.0
// @description Document sharing for educators
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name jwt_token

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logr.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Upload.RateLimitBackend == config.RateLimitRedis || cfg.Session.Backend == config.RateLimitRedis {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redisClient.Close()
	}

	store, err := objectstore.New(ctx, cfg.Storage)
	if err != nil {
		logr.Fatal("failed to init object store", zap.Error(err))
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	activitySvc := service.NewActivityService(repository.NewActivityRepository(db), logr)

	orphans := service.NewOrphanCleaner(store, metricsSvc, logr)
	cleanupQueue := jobs.NewQueue("orphan-cleanup", orphans.Handle, jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		MaxRetries: cfg.Jobs.Retries,
		RetryDelay: 5 * time.Second,
		Logger:     logr,
	})
	orphans.UseQueue(cleanupQueue)
	cleanupQueue.Start(ctx)
	defer cleanupQueue.Stop()

	tokens := service.NewTokenService(userRepo, service.TokenConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: "share2teach",
	})
	authSvc := service.NewAuthService(userRepo, tokens, mailer.NewSMTP(cfg.Mail), activitySvc, validate, logr, service.AuthConfig{
		ResetTokenTTL: time.Hour,
		FrontendURL:   cfg.Mail.FrontendURL,
	})
	uploadSvc := service.NewUploadService(documentRepo, store, watermark.NewRegistry(), orphans, activitySvc, metricsSvc, validate, logr,
		service.UploadConfig{MaxFileSizeBytes: cfg.Upload.MaxFileSizeBytes})
	documentSvc := service.NewDocumentService(documentRepo, store, activitySvc, metricsSvc, validate, logr)
	conversionSvc := service.NewConversionService(documentRepo, store, export.NewConverter(watermark.License), orphans, activitySvc, metricsSvc, logr)
	ratingSvc := service.NewRatingService(repository.NewRatingRepository(db), activitySvc)
	moderationSvc := service.NewModerationService(repository.NewModerationRepository(db), activitySvc, validate)
	reportSvc := service.NewReportService(repository.NewReportRepository(db), activitySvc, validate)
	faqSvc := service.NewFAQService(repository.NewFAQRepository(db), activitySvc, validate)

	scheduler := jobs.NewScheduler(logr, time.Minute)
	if !cfg.Jobs.SchedulerDisabled {
		if err := scheduler.Register("reset-token-sweeper", cfg.Jobs.ResetSweeperSpec, authSvc.SweepResetTokens); err != nil {
			logr.Fatal("failed to schedule reset token sweeper", zap.Error(err))
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	var (
		limiter  ratelimit.Limiter
		sessions session.Store
	)
	if cfg.Upload.RateLimitBackend == config.RateLimitRedis {
		limiter = ratelimit.NewRedisLimiter(redisClient, "ratelimit:upload", cfg.Upload.RateLimit, cfg.Upload.RateWindow)
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.Upload.RateLimit, cfg.Upload.RateWindow)
	}
	if cfg.Session.Backend == config.RateLimitRedis {
		sessions = session.NewRedisStore(redisClient, cfg.Session.TTL)
	} else {
		sessions = session.NewMemoryStore(cfg.Session.TTL)
	}
	sessionMW := middleware.NewSessions(sessions, session.NewSigner(cfg.Session.Secret), middleware.SessionCookie{
		Name:   cfg.Session.CookieName,
		MaxAge: int(cfg.Session.TTL.Seconds()),
		Secure: cfg.Session.Secure,
	}, logr)

	checks := map[string]handler.Check{
		"database": func(ctx context.Context) error { return db.PingContext(ctx) },
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsSvc))
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if cfg.Storage.Driver == config.StorageLocal {
		r.Static("/files", cfg.Storage.LocalDir)
	}

	handler.RegisterRoutes(r, handler.Routes{
		Tokens:              tokens,
		Sessions:            sessionMW,
		UploadLimiter:       limiter,
		UploadLimitFailOpen: cfg.Upload.RateLimitFailOpen,
		Visits:              activitySvc,
		Metrics:             metricsSvc,
		Logger:              logr,
		Auth:                handler.NewAuthHandler(authSvc, sessionMW),
		Documents:           handler.NewDocumentHandler(uploadSvc, documentSvc, conversionSvc, cfg.Upload.MaxFileSizeBytes),
		Workflow:            handler.NewWorkflowHandler(ratingSvc, moderationSvc, reportSvc),
		Activity:            handler.NewActivityHandler(activitySvc),
		FAQ:                 handler.NewFAQHandler(faqSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}
