package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/maryamMilad/ai-trading-agent/db"
	"github.com/maryamMilad/ai-trading-agent/internal/config"
	"github.com/maryamMilad/ai-trading-agent/internal/handler"
	"github.com/maryamMilad/ai-trading-agent/internal/repository"
	"github.com/maryamMilad/ai-trading-agent/internal/trace"
)

func main() {

	godotenv.Load()

	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required")
	}

	err := trace.Init(cfg.TracingEnabled, "ai-trading-agent-api")
	if err != nil {
		log.Fatalf("error initializing tracing: %v", err)
	}
	defer trace.Shutdown(context.Background())

	err = db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.Migrate(db.DB, cfg.DatabaseDriver)
	if err != nil {
		log.Fatalf("error migrating DB: %v", err)
	}

	// Redis is optional here; without it every read goes to the database.
	err = db.ConnectRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		slog.Warn("error connecting to Redis, serving without cache", "error", err)
		db.CloseRedis()
		db.Redis = nil
	}
	defer db.CloseRedis()

	var predictions handler.PredictionStore = repository.NewPredictionRepository(db.DB)
	if db.Redis != nil {
		predictions = repository.NewCachedPredictionRepository(repository.NewPredictionRepository(db.DB), db.Redis, db.LatestPredictionKeyPrefix, repository.DefaultCacheTTL)
	}

	predictionHandler := handler.NewPredictionHandler(predictions, repository.NewRunRepository(db.DB))

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", handler.APIKeyHeader},
	}))

	handler.RegisterRoutes(r, predictionHandler, cfg.APIKey)

	slog.Info("starting API server", "port", cfg.Port, "driver", cfg.DatabaseDriver, "auth", cfg.APIKey != "", "cache", db.Redis != nil)

	err = r.Run(":" + cfg.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
