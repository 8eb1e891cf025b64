package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	ginprometheus "github.com/zsais/go-gin-prometheus"

	"adventure-server/internal/config"
	"adventure-server/internal/database"
	"adventure-server/internal/handler"
	appLogger "adventure-server/internal/logger"
	"adventure-server/internal/middleware"
	"adventure-server/internal/repository"
	"adventure-server/internal/service"
	pkgDatabase "adventure-server/pkg/database"
	"adventure-server/pkg/taskmanager"
)

func main() {
	_ = godotenv.Load()

	// --- Configuration ---
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	logger, err := appLogger.New(appLogger.Config{
		Level:    cfg.LogLevel,
		Encoding: "json",
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	zap.L().Info("Logger initialized successfully", zap.String("logLevel", cfg.LogLevel))

	// --- External Connections ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbPool, err := pkgDatabase.NewPool(ctx, pkgDatabase.Config{
		DSN:            cfg.GetDSN(),
		MaxConns:       cfg.DBMaxConns,
		ConnectTimeout: cfg.DBTimeout,
	}, logger)
	if err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer dbPool.Close()

	if err := database.ApplyMigrations(dbPool); err != nil {
		zap.L().Fatal("Failed to apply database migrations", zap.Error(err))
	}
	zap.L().Info("Database migrations applied")

	// --- Dependency Injection ---
	jobRepo := repository.NewPgJobRepository(dbPool, logger)
	storyRepo := repository.NewPgStoryRepository(dbPool, logger)

	aiClient, err := service.NewAIClient(service.AIClientConfig{
		ClientType: cfg.AIClientType,
		APIKey:     cfg.AIAPIKey,
		BaseURL:    cfg.AIBaseURL,
		Model:      cfg.AIModel,
		Timeout:    cfg.AITimeout,
	}, logger)
	if err != nil {
		zap.L().Fatal("Failed to create AI client", zap.Error(err))
	}

	generator, err := service.NewStoryGenerator(cfg.PromptsDir, aiClient, storyRepo, logger)
	if err != nil {
		zap.L().Fatal("Failed to create story generator", zap.Error(err))
	}

	taskManager := taskmanager.New()
	jobService := service.NewJobService(jobRepo, generator, taskManager, logger)
	storyService := service.NewStoryService(storyRepo, logger)
	storyHandler := handler.NewStoryHandler(jobService, storyService, logger)

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.GinZapLogger(logger))
	router.Use(gin.Recovery())

	p := ginprometheus.NewPrometheus("gin")

	// Configure CORS Middleware
	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
		zap.L().Info("CORSAllowedOrigins not set, allowing default", zap.String("origin", "http://localhost:3000"))
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Health Check Endpoint
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// Register Application Routes
	storyHandler.RegisterRoutes(router)

	p.Use(router)

	// --- Start HTTP Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("Starting HTTP server", zap.String("port", cfg.Port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP server shutdown error", zap.Error(err))
	}

	// Дожидаемся завершения фоновых задач генерации: запущенные задачи
	// не отменяются, только ожидаются.
	if err := taskManager.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Task manager shutdown error", zap.Error(err))
	}

	zap.L().Info("Server stopped")
}
