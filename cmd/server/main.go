package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/creditmeter/fico-scoring/internal/credit"
	"github.com/creditmeter/fico-scoring/internal/errors"
	"github.com/creditmeter/fico-scoring/internal/model"
	"github.com/creditmeter/fico-scoring/internal/monitoring"
	"github.com/creditmeter/fico-scoring/internal/security"
)

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env is optional; environment variables win
	_ = godotenv.Load()

	port := getEnvOrDefault("PORT", "8080")
	modelPath := getEnvOrDefault("MODEL_PATH", "./data/fico_model.json")

	// The wire-name tables and field specs are checked once here; an
	// inconsistent schema must never serve a single request.
	if err := credit.ValidateSchema(); err != nil {
		slog.Error("Credit schema is inconsistent", "error", err)
		os.Exit(1)
	}

	// The model artifact is loaded exactly once per process and shared
	// read-only across in-flight requests.
	scorer, err := model.Load(modelPath)
	if err != nil {
		slog.Error("Failed to load scoring model", "error", err, "path", modelPath)
		os.Exit(1)
	}
	slog.Info("Scoring model loaded", "path", modelPath, "model", scorer.Name())

	r := setupRouter(scorer)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

// setupRouter wires middleware and routes around the injected scorer, so
// tests can run the full HTTP surface against a stand-in model.
func setupRouter(scorer credit.Scorer) *gin.Engine {
	r := gin.New()

	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	r.Use(monitoring.MonitoringMiddleware(appMetrics, appLogger))

	// Error handling middleware
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	// Security middleware setup
	securityConfig := security.DefaultSecurityConfig()
	securityMiddleware := security.NewSecurityMiddleware(securityConfig)

	r.Use(securityMiddleware.SecurityHeaders)
	r.Use(securityMiddleware.RequestTimeout)
	r.Use(securityMiddleware.BodyLimit)
	r.Use(securityMiddleware.ValidateContentType)
	r.Use(securityMiddleware.RateLimitByIP)

	r.Use(cors.New(cors.Config{
		AllowOrigins: securityConfig.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
		})
	})

	// Metrics endpoint
	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, appMetrics.GetStats())
	})

	// Swagger documentation routes
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/score", scoreHandler(scorer, appMetrics, appLogger))

	return r
}

// scoreHandler runs the full pipeline for one request: parse and
// validate the nested payload, derive the cross-category flags, assemble
// the five vectors and score them. Each request builds its own record;
// nothing is shared between requests except the read-only model.
func scoreHandler(scorer credit.Scorer, appMetrics *monitoring.Metrics, appLogger *monitoring.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		body, err := c.GetRawData()
		if err != nil {
			appErr := errors.NewMalformedInputError("failed to read request body", err)
			appMetrics.IncrementMalformedPayload()
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr.Payload())
			return
		}

		rec, err := credit.ParseRecord(body)
		if err != nil {
			appErr := errors.ToAppError(err)
			switch appErr.Category {
			case errors.CategoryValidation:
				appMetrics.IncrementValidationFailure()
				appLogger.ValidationLogger(len(appErr.Fields), c.ClientIP())
			case errors.CategoryMalformed:
				appMetrics.IncrementMalformedPayload()
			}
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr.Payload())
			return
		}

		rec.Derive()

		score, err := rec.Score(scorer)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr.Payload())
			return
		}

		appMetrics.IncrementScoresServed()
		appLogger.ScoreLogger(score, time.Since(start))

		c.JSON(http.StatusOK, gin.H{"ficoScore": score})
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
