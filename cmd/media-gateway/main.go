package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/media-lookup-api/api/swagger"
	"github.com/noah-isme/media-lookup-api/internal/handler"
	internalMiddleware "github.com/noah-isme/media-lookup-api/internal/middleware"
	"github.com/noah-isme/media-lookup-api/internal/repository"
	"github.com/noah-isme/media-lookup-api/internal/service"
	"github.com/noah-isme/media-lookup-api/internal/upstream"
	"github.com/noah-isme/media-lookup-api/pkg/cache"
	"github.com/noah-isme/media-lookup-api/pkg/config"
	appErrors "github.com/noah-isme/media-lookup-api/pkg/errors"
	"github.com/noah-isme/media-lookup-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/media-lookup-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/media-lookup-api/pkg/middleware/requestid"
	"github.com/noah-isme/media-lookup-api/pkg/response"
)

// @title Media Lookup API
// @version 0.1.0
// @description Snapshot-backed search over an upstream media library
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

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Search.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, search cache disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Search.CacheTTL, logr, true)
		}
	}

	store := service.NewSnapshotStore()
	upstreamClient := upstream.NewClient(cfg.Upstream, logr)
	urlBuilder := upstream.NewURLBuilder(cfg.Upstream)
	viewBuilder := service.NewAssetViewBuilder(urlBuilder)

	ingestSvc := service.NewIngestService(service.IngestServiceParams{
		Lister:   upstreamClient,
		Builder:  viewBuilder,
		Store:    store,
		Cache:    cacheSvc,
		Metrics:  metricsSvc,
		Logger:   logr,
		PageSize: cfg.Upstream.PageSize,
	})

	querySvc := service.NewQueryService(service.QueryServiceParams{
		Store:   store,
		Cache:   cacheSvc,
		Metrics: metricsSvc,
		Logger:  logr,
	})

	searchHandler := handler.NewSearchHandler(querySvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalMiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if !store.Ready() {
			response.Error(c, appErrors.ErrNotReady)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.GET("/media/assets", searchHandler.List)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// One ingest run per process; queries answer NotReady until it installs.
	go func() {
		if err := ingestSvc.Run(context.Background()); err != nil {
			logr.Sugar().Errorw("ingest run failed", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
