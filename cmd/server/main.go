package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/nichegen/backend/config"
	httpDelivery "github.com/nichegen/backend/internal/delivery/http"
	"github.com/nichegen/backend/internal/domain"
	"github.com/nichegen/backend/internal/infrastructure/amazonapi"
	"github.com/nichegen/backend/internal/infrastructure/cache"
	"github.com/nichegen/backend/internal/usecase"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting NicheGen Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	// Initialize infrastructure dependencies
	cacheRepo := buildCache(cfg)

	amazonClient := amazonapi.NewClient(cfg.Amazon.APIKey, cfg.Amazon.BaseURL, cfg.Amazon.Marketplace)
	amazonClient.SetRequestsPerMinute(cfg.RateLimit.Amazon)

	// Enable debug mode in development environment
	debug := cfg.Server.Environment == "development"
	if debug {
		amazonClient.SetDebug(true)
		log.Printf("Amazon client debug mode enabled")
	}

	// Initialize usecase layer
	ranker := usecase.NewRankingService(usecase.RankingConfig{
		PremiumBrands:      cfg.Ranking.PremiumBrands,
		Limit:              cfg.Ranking.Limit,
		EnableDebugLogging: debug,
	})

	catalog := usecase.NewCatalogService(cacheRepo, amazonClient, ranker, usecase.CatalogServiceConfig{
		CacheTTL:           cfg.Cache.TTL,
		EnableDebugLogging: debug,
	})

	log.Printf("Ranking: limit=%d, premium brands=%d (0 = built-in list)",
		cfg.Ranking.Limit, len(cfg.Ranking.PremiumBrands))

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(catalog, ranker)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildCache constructs the configured cache backend
func buildCache(cfg *config.Config) domain.CacheRepository {
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(context.Background(), cfg.Cache.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Printf("Connected to Redis cache")
		return redisCache
	}
	return cache.NewMemoryCache()
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
