package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/mindmate-app/planner-api/api/swagger"
	"github.com/mindmate-app/planner-api/internal/handler"
	"github.com/mindmate-app/planner-api/internal/middleware"
	"github.com/mindmate-app/planner-api/internal/oracle"
	"github.com/mindmate-app/planner-api/internal/repository"
	"github.com/mindmate-app/planner-api/internal/service"
	"github.com/mindmate-app/planner-api/pkg/cache"
	"github.com/mindmate-app/planner-api/pkg/config"
	"github.com/mindmate-app/planner-api/pkg/export"
	"github.com/mindmate-app/planner-api/pkg/logger"
	corsmiddleware "github.com/mindmate-app/planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/mindmate-app/planner-api/pkg/middleware/requestid"
	"github.com/mindmate-app/planner-api/pkg/storage"
)

// @title MindMate Planner API
// @version 1.0.0
// @description Study plan synthesis service backed by a validated language model loop
// @BasePath /
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

	ctx := context.Background()

	var gemini *oracle.GeminiClient
	if cfg.Gemini.APIKey != "" {
		gemini, err = oracle.NewGeminiClient(ctx, cfg.Gemini)
		if err != nil {
			logr.Fatal("failed to init gemini client", zap.Error(err))
		}
	} else {
		logr.Warn("GEMINI_API_KEY not set, plan generation and chat run in degraded mode")
	}

	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, latest-plan cache disabled", zap.Error(err))
		}
	}
	planStore := repository.NewPlanCacheRepository(redisClient, cfg.Planner.CacheTTL, logr)

	uploads, err := storage.NewLocalStorage(cfg.Storage.UploadsDir)
	if err != nil {
		logr.Fatal("failed to init uploads storage", zap.Error(err))
	}

	metricsSvc := service.NewMetricsService()

	validate := validator.New()

	var planSvc *service.PlanService
	var chatSvc *service.ChatService
	if gemini != nil {
		planSvc = service.NewPlanService(gemini, gemini, planStore, uploads, validate, logr, metricsSvc, cfg.Planner)
		chatSvc = service.NewChatService(gemini, logr)
	} else {
		planSvc = service.NewPlanService(nil, nil, planStore, uploads, validate, logr, metricsSvc, cfg.Planner)
		chatSvc = service.NewChatService(nil, logr)
	}

	planHandler := handler.NewPlanHandler(planSvc, export.NewCSVExporter(), export.NewPDFExporter())
	chatHandler := handler.NewChatHandler(chatSvc)
	datesheetHandler := handler.NewDatesheetHandler(uploads, cfg.Storage.MaxUploadBytes)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "ai_enabled": gemini != nil})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	if cfg.Auth.Enabled {
		api.Use(middleware.JWT(cfg.Auth))
	} else {
		api.Use(middleware.OptionalJWT(cfg.Auth))
	}

	api.POST("/studyplan", planHandler.Generate)
	api.GET("/studyplan/latest", planHandler.Latest)
	api.GET("/studyplan/export", planHandler.Export)

	api.POST("/datesheet", datesheetHandler.Upload)
	api.GET("/datesheet", datesheetHandler.List)
	api.DELETE("/datesheet", datesheetHandler.Delete)

	if cfg.Chat.Enabled {
		api.POST("/chat", chatHandler.Reply)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "ai_enabled", gemini != nil)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
