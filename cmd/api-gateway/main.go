package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/psgtech/internship-undertaking-api/api/swagger"
	"github.com/psgtech/internship-undertaking-api/internal/handler"
	"github.com/psgtech/internship-undertaking-api/internal/middleware"
	"github.com/psgtech/internship-undertaking-api/internal/models"
	"github.com/psgtech/internship-undertaking-api/internal/repository"
	"github.com/psgtech/internship-undertaking-api/internal/service"
	"github.com/psgtech/internship-undertaking-api/pkg/cache"
	"github.com/psgtech/internship-undertaking-api/pkg/config"
	"github.com/psgtech/internship-undertaking-api/pkg/database"
	"github.com/psgtech/internship-undertaking-api/pkg/export"
	"github.com/psgtech/internship-undertaking-api/pkg/jobs"
	"github.com/psgtech/internship-undertaking-api/pkg/logger"
	"github.com/psgtech/internship-undertaking-api/pkg/mailer"
	corsmiddleware "github.com/psgtech/internship-undertaking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/psgtech/internship-undertaking-api/pkg/middleware/requestid"
)

// @title Internship Undertaking API
// @version 1.0.0
// @description Internship submission, approval and undertaking generation for PSG Tech students.
// @BasePath /
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, overview cache disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.OverviewTTL, logr, true)
			defer cacheRepo.Close()
		}
	}

	var outbound mailer.Mailer
	switch cfg.Mail.Provider {
	case "sendgrid":
		outbound = mailer.NewSendGridMailer(cfg.Mail)
	default:
		outbound = mailer.NewConsoleMailer(logr)
	}

	notifier := service.NewNotificationService(outbound, logr)
	queue := jobs.NewQueue("notifications", notifier.Deliver, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	})
	notifier.AttachQueue(queue)
	queueCtx, queueCancel := context.WithCancel(context.Background())
	queue.Start(queueCtx)
	defer func() {
		queueCancel()
		queue.Stop()
	}()

	studentRepo := repository.NewStudentRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	classRepo := repository.NewClassRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	authSvc := service.NewAuthService(cfg.JWT)
	submissionSvc := service.NewSubmissionService(
		submissionRepo,
		studentRepo,
		staffRepo,
		classRepo,
		notifier,
		auditRepo,
		export.NewUndertakingRenderer(),
		export.NewCSVExporter(),
		cacheSvc,
		metricsSvc,
		nil,
		logr,
	)
	profileSvc := service.NewProfileService(studentRepo, classRepo, departmentRepo, nil, nil, logr)

	submissionHandler := handler.NewSubmissionHandler(submissionSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	submissions := api.Group("/submissions")
	{
		// Public read surface: admin overview and the undertaking download
		// are consumed outside the authenticated apps.
		submissions.GET("/admin/overview", submissionHandler.AdminOverview)
		submissions.GET("/admin/overview/export", submissionHandler.ExportOverview)
		submissions.GET("/:id/download-pdf", submissionHandler.DownloadPDF)

		authed := submissions.Group("")
		authed.Use(middleware.JWT(authSvc))
		authed.GET("/departments", profileHandler.ListDepartments)

		student := authed.Group("")
		student.Use(middleware.RBAC(models.RoleStudent))
		{
			student.POST("", submissionHandler.Create)
			student.GET("/me", submissionHandler.ListMine)
			student.GET("/me/profile", profileHandler.GetProfile)
			student.POST("/me/select-department", profileHandler.SelectDepartment)
			student.PATCH("/me/update-profile", profileHandler.UpdateProfile)
		}

		staff := authed.Group("")
		staff.Use(middleware.RBAC(models.RoleStaff))
		{
			staff.GET("/pending", submissionHandler.ListPending)
			staff.GET("/accepted-submissions/class", submissionHandler.ListAccepted)
			staff.PATCH("/:id/decision", submissionHandler.Decide)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
