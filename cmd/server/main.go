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
	"go.uber.org/zap"

	"github.com/contactdeck/contactdeck/internal/config"
	"github.com/contactdeck/contactdeck/internal/handler"
	"github.com/contactdeck/contactdeck/internal/logger"
	"github.com/contactdeck/contactdeck/internal/middleware"
	"github.com/contactdeck/contactdeck/internal/repository"
	"github.com/contactdeck/contactdeck/internal/service"
	"github.com/contactdeck/contactdeck/pkg/database"
	"github.com/contactdeck/contactdeck/pkg/redis"
	"github.com/contactdeck/contactdeck/pkg/telemetry"
)

const serviceName = "contactdeck-api"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.App.Debug {
		logLevel = "debug"
	}
	if err := logger.Init(&logger.Config{
		Level:       logLevel,
		ServiceName: serviceName,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting ContactDeck API...", zap.String("environment", cfg.App.Environment))

	ctx := context.Background()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    serviceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn("Failed to initialize telemetry", zap.Error(err))
	} else if telemetryCfg.Enabled {
		appLog.Info("Telemetry initialized", zap.String("collector", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(ctx)

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxConns),
		MinConns:        int32(cfg.Database.MinConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  10 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()
	appLog.Info("Database connected",
		zap.Int32("pool_min", dbCfg.MinConns),
		zap.Int32("pool_max", dbCfg.MaxConns))

	// Initialize Redis connection (optional, roster caching is disabled
	// if the connection fails)
	var redisClient *redis.Client
	redisCfg := &redis.Config{
		Host:          cfg.Redis.Host,
		Port:          cfg.Redis.Port,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		PoolSize:      cfg.Redis.PoolSize,
		MinIdleConns:  cfg.Redis.MinIdleConns,
		DialTimeout:   cfg.Redis.DialTimeout,
		ReadTimeout:   cfg.Redis.ReadTimeout,
		WriteTimeout:  cfg.Redis.WriteTimeout,
		MaxRetries:    3,
		RetryInterval: time.Second,
	}
	redisClient, err = redis.NewClient(ctx, redisCfg)
	if err != nil {
		appLog.Warn("Redis connection failed (roster caching disabled)", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		appLog.Info("Redis connected", zap.String("addr", redisCfg.Addr()))
	}

	// Repositories
	pool := db.Pool()
	userRepo := repository.NewPostgresUserRepository(pool)
	sessionRepo := repository.NewPostgresSessionRepository(pool)
	companyRepo := repository.NewPostgresCompanyRepository(pool)
	personRepo := repository.NewPostgresPersonRepository(pool)
	tagRepo := repository.NewPostgresTagRepository(pool)
	videoRepo := repository.NewPostgresVideoRepository(pool)
	galleryRepo := repository.NewPostgresGalleryRepository(pool)
	seoRepo := repository.NewPostgresSEORepository(pool)

	var rosterCache repository.RosterCache
	if redisClient != nil {
		rosterCache = repository.NewRedisRosterCache(redisClient)
	} else {
		rosterCache = repository.NoopRosterCache{}
	}

	// Services
	authService := service.NewAuthService(userRepo, sessionRepo, &service.AuthServiceConfig{
		JWTSecret:          cfg.JWT.Secret,
		JWTIssuer:          cfg.JWT.Issuer,
		AccessTokenExpiry:  cfg.JWT.AccessTokenTTL,
		RefreshTokenExpiry: cfg.JWT.RefreshTokenTTL,
	})
	contactService := service.NewContactService(companyRepo, personRepo, tagRepo, rosterCache)
	mediaService := service.NewMediaService(videoRepo, galleryRepo)
	tagService := service.NewTagService(tagRepo)
	seoService := service.NewSEOService(seoRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	companyHandler := handler.NewCompanyHandler(contactService)
	personHandler := handler.NewPersonHandler(contactService)
	mediaHandler := handler.NewMediaHandler(mediaService)
	tagHandler := handler.NewTagHandler(tagService)
	seoHandler := handler.NewSEOHandler(seoService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(appLog))
	router.Use(middleware.CORS())

	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(serviceName))
		router.Use(telemetry.TraceHeaderMiddleware())
	}

	if cfg.RateLimit.Enabled {
		rateLimitCfg := middleware.DefaultRateLimitConfig()
		rateLimitCfg.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rateLimitCfg.BurstSize = cfg.RateLimit.BurstSize
		router.Use(middleware.RateLimiter(rateLimitCfg))
	}

	// Health check endpoints
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	authRequired := middleware.Auth(authService)

	// API routes
	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)

			protected := auth.Group("")
			protected.Use(authRequired)
			{
				protected.POST("/logout-all", authHandler.LogoutAll)
				protected.GET("/me", authHandler.Me)
				protected.PUT("/me", authHandler.UpdateMe)
			}
		}

		companies := api.Group("/companies")
		companies.Use(authRequired)
		{
			companies.POST("", companyHandler.Create)
			companies.GET("", companyHandler.List)
			companies.GET("/:id", companyHandler.Get)
			companies.PUT("/:id", companyHandler.Update)
			companies.DELETE("/:id", companyHandler.Delete)
			companies.GET("/:id/people", companyHandler.Roster)
		}

		people := api.Group("/people")
		people.Use(authRequired)
		{
			people.POST("", personHandler.Create)
			people.GET("", personHandler.List)
			people.GET("/:id", personHandler.Get)
			people.PUT("/:id", personHandler.Update)
			people.DELETE("/:id", personHandler.Delete)

			people.POST("/:id/employments", personHandler.AddEmployment)
			people.DELETE("/:id/employments/:employmentId", personHandler.RemoveEmployment)
			people.POST("/:id/marriages", personHandler.AddMarriage)
			people.DELETE("/:id/marriages/:marriageId", personHandler.RemoveMarriage)
			people.POST("/:id/children", personHandler.AddChild)
			people.DELETE("/:id/children/:childId", personHandler.RemoveChild)
			people.POST("/:id/tags/:tagId", personHandler.AttachTag)
			people.DELETE("/:id/tags/:tagId", personHandler.DetachTag)
		}

		videos := api.Group("/videos")
		videos.Use(authRequired)
		{
			videos.POST("", mediaHandler.CreateVideo)
			videos.GET("", mediaHandler.ListVideos)
			videos.GET("/:id", mediaHandler.GetVideo)
			videos.PUT("/:id", mediaHandler.UpdateVideo)
			videos.DELETE("/:id", mediaHandler.DeleteVideo)
		}

		galleries := api.Group("/galleries")
		galleries.Use(authRequired)
		{
			galleries.POST("", mediaHandler.CreateGallery)
			galleries.GET("", mediaHandler.ListGalleries)
			galleries.GET("/:id", mediaHandler.GetGallery)
			galleries.PUT("/:id", mediaHandler.UpdateGallery)
			galleries.DELETE("/:id", mediaHandler.DeleteGallery)
		}

		tags := api.Group("/tags")
		tags.Use(authRequired)
		{
			tags.POST("", tagHandler.Create)
			tags.GET("", tagHandler.List)
			tags.PUT("/:id", tagHandler.Update)
			tags.DELETE("/:id", tagHandler.Delete)
		}

		seo := api.Group("/seo")
		seo.Use(authRequired)
		{
			seo.GET("", seoHandler.List)
			seo.GET("/:pageKey", seoHandler.Get)
			seo.PUT("/:pageKey", seoHandler.Upsert)
		}
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLog.Info("ContactDeck API listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", zap.Error(err))
	}

	appLog.Info("Server exited")
}
