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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/studybloom-api/api/swagger"
	"github.com/noah-isme/studybloom-api/internal/handler"
	"github.com/noah-isme/studybloom-api/internal/holiday"
	"github.com/noah-isme/studybloom-api/internal/middleware"
	"github.com/noah-isme/studybloom-api/internal/repository"
	"github.com/noah-isme/studybloom-api/internal/service"
	"github.com/noah-isme/studybloom-api/internal/store"
	"github.com/noah-isme/studybloom-api/pkg/cache"
	"github.com/noah-isme/studybloom-api/pkg/config"
	"github.com/noah-isme/studybloom-api/pkg/database"
	appErrors "github.com/noah-isme/studybloom-api/pkg/errors"
	"github.com/noah-isme/studybloom-api/pkg/export"
	"github.com/noah-isme/studybloom-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/studybloom-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/studybloom-api/pkg/middleware/requestid"
	"github.com/noah-isme/studybloom-api/pkg/response"
)

// @title StudyBloom API
// @version 1.0.0
// @description Personal study organization API: subjects, activities, calendar and kanban board
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewSQLite(cfg.Store)
	if err != nil {
		logr.Sugar().Fatalw("failed to open database", "path", cfg.Store.DatabasePath, "error", err)
	}
	defer db.Close() //nolint:errcheck

	stateRepo := repository.NewStateRepository(db)
	if err := stateRepo.EnsureSchema(ctx); err != nil {
		logr.Sugar().Fatalw("failed to prepare database", "error", err)
	}

	st := store.New(stateRepo, store.Config{
		Namespace: cfg.Store.Namespace,
		Seed:      cfg.Store.Seed,
		Workers:   cfg.Store.Workers,
		Logger:    logr,
	})
	if err := st.Start(ctx); err != nil {
		logr.Sugar().Fatalw("failed to hydrate store", "error", err)
	}
	defer st.Stop()

	metricsService := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	var cacheService *service.CacheService
	if cacheRepo != nil {
		cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Holidays.CacheTTL, logr, true)
	}

	validate := validator.New()
	holidayClient := holiday.NewClient(cfg.Holidays)

	subjectService := service.NewSubjectService(st, validate, logr)
	activityService := service.NewActivityService(st, validate, logr)
	overviewService := service.NewOverviewService(st, logr)
	calendarService := service.NewCalendarService(st, holidayClient, cacheService, metricsService, cfg.Holidays.CacheTTL, logr)
	boardService := service.NewBoardService(st, validate, logr)
	authService := service.NewAuthService(cfg.JWT, validate, logr)
	reportService := service.NewReportService(st, export.NewPDFExporter(), export.NewCSVExporter(), logr)

	authHandler := handler.NewAuthHandler(authService)
	subjectHandler := handler.NewSubjectHandler(subjectService)
	activityHandler := handler.NewActivityHandler(activityService)
	overviewHandler := handler.NewOverviewHandler(overviewService)
	calendarHandler := handler.NewCalendarHandler(calendarService)
	boardHandler := handler.NewBoardHandler(boardService)
	reportHandler := handler.NewReportHandler(reportService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
	})

	// Claims attach to every API request when a token is present; /auth/me
	// additionally requires one.
	api := r.Group(cfg.APIPrefix, middleware.OptionalJWT(authService))
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.GET("/me", middleware.JWT(authService), authHandler.Me)
		}

		api.GET("/overview", overviewHandler.Overview)
		api.GET("/calendar/:year/:month", calendarHandler.Month)
		api.POST("/calendar/:year/refresh", calendarHandler.RefreshHolidays)

		board := api.Group("/board")
		{
			board.GET("", boardHandler.Board)
			board.POST("/move", boardHandler.Move)
			board.POST("/activities/:id/cycle", boardHandler.CycleStatus)
		}

		subjects := api.Group("/subjects")
		{
			subjects.GET("", subjectHandler.List)
			subjects.POST("", subjectHandler.Create)
			subjects.GET("/:id", subjectHandler.Get)
			subjects.PATCH("/:id", subjectHandler.Update)
			subjects.DELETE("/:id", subjectHandler.Delete)
			subjects.GET("/:id/report", reportHandler.SubjectReport)
			subjects.POST("/:id/grades", subjectHandler.AddGrade)
			subjects.DELETE("/:id/grades/:gradeId", subjectHandler.RemoveGrade)
			subjects.POST("/:id/absences", subjectHandler.AddAbsence)
			subjects.DELETE("/:id/absences/:absenceId", subjectHandler.RemoveAbsence)
			subjects.POST("/:id/notes", subjectHandler.AddNote)
			subjects.DELETE("/:id/notes/:noteId", subjectHandler.RemoveNote)
		}

		activities := api.Group("/activities")
		{
			activities.GET("", activityHandler.List)
			activities.POST("", activityHandler.Create)
			activities.GET("/export", reportHandler.ActivitiesCSV)
			activities.GET("/:id", activityHandler.Get)
			activities.PATCH("/:id", activityHandler.Update)
			activities.DELETE("/:id", activityHandler.Delete)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
}
