package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/nichegen/backend/config"
	"github.com/nichegen/backend/internal/domain"
	"github.com/nichegen/backend/internal/infrastructure/amazonapi"
	"github.com/nichegen/backend/internal/infrastructure/cache"
	"github.com/nichegen/backend/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting NicheGen site generator")
	log.Printf("Niches file: %s", cfg.Generator.NichesFile)
	log.Printf("Output directory: %s", cfg.Generator.OutputDir)
	log.Printf("Affiliate tag: %s", cfg.Generator.AffiliateTag)

	niches, err := usecase.LoadNiches(cfg.Generator.NichesFile)
	if err != nil {
		log.Fatalf("Failed to read niches: %v", err)
	}
	if len(niches) == 0 {
		log.Fatalf("No niches found in %s", cfg.Generator.NichesFile)
	}

	cacheRepo := buildCache(cfg)

	amazonClient := amazonapi.NewClient(cfg.Amazon.APIKey, cfg.Amazon.BaseURL, cfg.Amazon.Marketplace)
	amazonClient.SetRequestsPerMinute(cfg.RateLimit.Amazon)
	debug := cfg.Server.Environment == "development"
	if debug {
		amazonClient.SetDebug(true)
	}

	ranker := usecase.NewRankingService(usecase.RankingConfig{
		PremiumBrands:      cfg.Ranking.PremiumBrands,
		Limit:              cfg.Ranking.Limit,
		EnableDebugLogging: debug,
	})
	catalog := usecase.NewCatalogService(cacheRepo, amazonClient, ranker, usecase.CatalogServiceConfig{
		CacheTTL:           cfg.Cache.TTL,
		EnableDebugLogging: debug,
	})
	sites := usecase.NewSiteService(catalog, usecase.NewExtractor(cfg.Generator.AffiliateTag), usecase.SiteServiceConfig{
		TemplateFile:       cfg.Generator.TemplateFile,
		OutputDir:          cfg.Generator.OutputDir,
		EnableDebugLogging: debug,
	})

	summary := sites.GenerateAll(context.Background(), niches)

	log.Printf("Generation summary: %d generated, %d failed", summary.Generated, summary.Failed)
	if summary.Generated == 0 {
		log.Printf("No sites were generated successfully")
		os.Exit(1)
	}
}

// buildCache constructs the configured cache backend
func buildCache(cfg *config.Config) domain.CacheRepository {
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(context.Background(), cfg.Cache.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		return redisCache
	}
	return cache.NewMemoryCache()
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime)
	log.SetOutput(os.Stdout)
}
