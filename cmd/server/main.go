// Package main Story Relay
//
//	@title			Story Relay API
//	@version		1.0
//	@description	Relay к Gemini и Imagen с кэшем изображений локаций в GCS.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	_ "story-relay/docs"
	"story-relay/internal/ai"
	"story-relay/internal/cachekey"
	"story-relay/internal/config"
	"story-relay/internal/handler"
	"story-relay/internal/imagecache"
	"story-relay/internal/logger"
	"story-relay/internal/middleware"
	"story-relay/internal/service"
	"story-relay/internal/storage"
)

func main() {
	// --- 1. Конфигурация ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- 2. Логгер ---
	appLogger, err := logger.New(cfg.Logger, "story-relay")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()
	zap.ReplaceGlobals(appLogger)
	appLogger.Info("Starting story relay",
		zap.String("env", cfg.AppEnv),
		zap.String("text_model", cfg.Gemini.TextModel),
		zap.String("image_model", cfg.Gemini.ImageModel),
		zap.Bool("free_mode", cfg.Gemini.FreeMode),
		zap.String("bucket", cfg.Storage.Bucket),
		zap.String("folder", cfg.Storage.Folder),
	)

	// --- 3. Внешние клиенты (один экземпляр на процесс) ---
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	gemini, err := ai.NewGeminiClient(initCtx, cfg.Gemini.APIKey(), cfg.Gemini.TextModel, cfg.Gemini.ImageModel, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini client", zap.Error(err))
	}

	storageClient, err := gcs.NewClient(initCtx, storage.ClientOptions(cfg.Storage.Credentials, cfg.Storage.ProjectID)...)
	if err != nil {
		appLogger.Fatal("Failed to initialize storage client", zap.Error(err))
	}
	defer storageClient.Close()

	if cfg.Storage.ConfigureBucket {
		if err := storage.ConfigureBucket(initCtx, storageClient, cfg.Storage.Bucket, appLogger); err != nil {
			// Бакет мог быть настроен заранее, а у сервисного аккаунта нет прав администратора.
			appLogger.Error("Error configuring bucket", zap.Error(err))
		}
	}

	blobStore, err := storage.NewGCSStore(storageClient, cfg.Storage.Bucket, cfg.Storage.PublicACL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize blob store", zap.Error(err))
	}

	// --- 4. Redis (необязателен: memo URL и счетчики rate limit) ---
	var redisClient *redis.Client
	if cfg.Cache.RedisURL != "" {
		redisClient, err = setupRedis(initCtx, cfg.Cache.RedisURL)
		if err != nil {
			appLogger.Warn("Redis unavailable, falling back to in-process state", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// --- 5. Кэш изображений ---
	deriver, err := cachekey.NewDeriver(cachekey.Algorithm(cfg.Cache.KeyAlgorithm))
	if err != nil {
		appLogger.Fatal("Invalid cache key algorithm", zap.Error(err))
	}
	cacheOpts := []imagecache.Option{imagecache.WithDeriver(deriver)}
	if redisClient != nil {
		cacheOpts = append(cacheOpts, imagecache.WithMemo(imagecache.NewRedisMemo(redisClient, cfg.Cache.MemoTTL)))
		appLogger.Info("Image URL memo enabled", zap.Duration("ttl", cfg.Cache.MemoTTL))
	}
	imageCache := imagecache.New(blobStore, cfg.Storage.Folder, appLogger, cacheOpts...)

	// --- 6. Сервисы ---
	resolver := service.NewImageResolver(imageCache, gemini, cfg.Gemini.AspectRatio, appLogger)
	storyService := service.NewStoryService(gemini, resolver, cfg.Gemini.StoryTimeout, appLogger)
	characterService := service.NewCharacterService(gemini, appLogger)

	relayHandler := handler.NewRelayHandler(storyService, characterService, map[string]handler.Pinger{
		"gemini":  gemini,
		"storage": blobStore,
	}, cfg.HTTP.MaxUploadBytes, cfg.HTTP.RequestBudget, appLogger)

	var generation []gin.HandlerFunc
	if cfg.HTTP.RateLimitRequests > 0 {
		store := middleware.RateLimitStore(redisClient, cfg.HTTP.RateLimitWindow, cfg.HTTP.RateLimitRequests)
		generation = append(generation, middleware.RateLimit(store, appLogger.Named("RateLimit")))
		appLogger.Info("Rate limiter initialized",
			zap.Uint("limit", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
			zap.Bool("redis", redisClient != nil),
		)
	}

	// --- 7. HTTP ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.AppEnv == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(middleware.GinZapLogger(appLogger))
	router.Use(gin.Recovery())
	router.Use(middleware.KeepAlive())
	router.Use(cors.New(corsConfig(cfg.HTTP.AllowedOrigins())))

	relayHandler.RegisterRoutes(router, generation...)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	p := ginprometheus.NewPrometheus("gin")
	p.Use(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- 8. Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	appLogger.Info("Server exiting")
}

func corsConfig(origins []string) cors.Config {
	corsCfg := cors.DefaultConfig()
	if len(origins) > 0 {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "HEAD", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	corsCfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	corsCfg.MaxAge = 12 * time.Hour
	return corsCfg
}

// setupRedis подключается к Redis и проверяет соединение.
func setupRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
