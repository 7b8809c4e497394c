package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"bilgin-backend/internal/ai"
	"bilgin-backend/internal/config"
	"bilgin-backend/internal/logger"
	"bilgin-backend/internal/queue"
	"bilgin-backend/internal/telemetry"
	"bilgin-backend/middleware"
	"bilgin-backend/routes"
	"bilgin-backend/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	// Connect to Redis
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	// Tracing is opt-in; metrics always initialize (no-op without a provider)
	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer("bilgin-backend", cfg.OTLPEndpoint)
		if err != nil {
			log.Fatal("Failed to initialize tracer:", err)
		}
		defer shutdown()
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Fatal("Failed to initialize metrics:", err)
	}

	// Gemini generator
	generator, err := ai.NewGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTier)
	if err != nil {
		log.Fatal("Failed to initialize Gemini generator:", err)
	}
	defer generator.Close()

	// Queue client for deferred extraction of large uploads
	queueClient := queue.NewClient(cfg)
	defer queueClient.Close()

	// Retention job for old Q&A records
	retention := services.NewRetentionService(cfg, mongoClient.Database(cfg.DBName).Collection("questions"))
	if err := retention.Start(); err != nil {
		log.Fatal("Failed to start retention scheduler:", err)
	}
	defer retention.Stop()

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.RateLimitMiddleware(rdb, cfg))
	if cfg.TracingEnabled {
		router.Use(middleware.TracingMiddleware())
		router.Use(middleware.EnrichTrace())
	}
	router.Use(middleware.MetricsMiddleware(metrics))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		mongoOK := mongoClient.Ping(ctx, nil) == nil
		redisOK := rdb.Ping(ctx).Err() == nil

		status := http.StatusOK
		health := "healthy"
		if !mongoOK || !redisOK {
			status = http.StatusServiceUnavailable
			health = "degraded"
		}

		c.JSON(status, gin.H{
			"status":    health,
			"mongo":     mongoOK,
			"redis":     redisOK,
			"timestamp": time.Now(),
		})
	})

	authMiddleware := middleware.NewAuthMiddleware(cfg, rdb)
	roleMiddleware := middleware.NewRoleMiddleware()

	routes.SetupAuthRoutes(router, cfg, mongoClient, rdb)
	routes.SetupDocumentRoutes(router, cfg, mongoClient, queueClient, metrics, authMiddleware, roleMiddleware)
	routes.SetupQuestionRoutes(router, cfg, mongoClient, generator, metrics, authMiddleware)
	routes.SetupChatRoutes(router, cfg, mongoClient, generator, metrics, authMiddleware)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
