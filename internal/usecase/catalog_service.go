package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/nichegen/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	CacheTTL           time.Duration
	SearchLimit        int // products requested from the API per keyword
	EnableDebugLogging bool
}

// CatalogService serves ranked product lists for search keywords.
// Flow: check cache -> search Amazon -> rank -> cache -> return.
type CatalogService struct {
	cache              domain.CacheRepository
	amazonClient       domain.AmazonClient
	ranker             *RankingService
	cacheTTL           time.Duration
	searchLimit        int
	enableDebugLogging bool
}

// NewCatalogService creates a new catalog service with dependencies
func NewCatalogService(
	cache domain.CacheRepository,
	amazonClient domain.AmazonClient,
	ranker *RankingService,
	config CatalogServiceConfig,
) *CatalogService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	searchLimit := config.SearchLimit
	if searchLimit <= 0 {
		// Fetch more than the ranking limit so deduplication and dropped
		// records still leave a full page.
		searchLimit = ranker.Limit() * 2
	}

	return &CatalogService{
		cache:              cache,
		amazonClient:       amazonClient,
		ranker:             ranker,
		cacheTTL:           cacheTTL,
		searchLimit:        searchLimit,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// SearchRanked returns the ranked, bounded product list for a keyword.
func (s *CatalogService) SearchRanked(ctx context.Context, keyword string) ([]domain.ScoredProduct, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := s.generateCacheKey(keyword)

	// Try cache first
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && cached != nil {
		if s.enableDebugLogging {
			log.Printf("[CATALOG] Cache hit for keyword %q (%d products)", keyword, len(cached))
		}
		return cached, nil
	}

	// Cache miss - search live
	records, err := s.amazonClient.SearchProducts(ctx, keyword, s.searchLimit)
	if err != nil {
		if errors.Is(err, domain.ErrNoProducts) || errors.Is(err, domain.ErrRateLimited) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrAmazonAPIFailure, err)
	}

	for i, p := range records {
		records[i] = NormalizeRecord(p)
	}

	ranked := s.ranker.RankProducts(records)
	if len(ranked) == 0 {
		return nil, domain.ErrNoProducts
	}

	// Cache the result; a cache write failure never fails the request
	if err := s.setInCache(ctx, cacheKey, ranked); err != nil {
		log.Printf("[CATALOG] Failed to cache results for %q: %v", keyword, err)
	}

	return ranked, nil
}

// ProductDetails fetches the full record for a single ASIN from the live
// API. Search results sometimes arrive without a title or image; the detail
// endpoint returns the complete record.
func (s *CatalogService) ProductDetails(ctx context.Context, asin string) (*domain.RawProduct, error) {
	asin = strings.TrimSpace(asin)
	if asin == "" {
		return nil, domain.ErrInvalidRequest
	}

	record, err := s.amazonClient.GetProductDetails(ctx, asin)
	if err != nil {
		return nil, err
	}

	normalized := NormalizeRecord(*record)
	return &normalized, nil
}

// generateCacheKey creates a normalized cache key for a keyword.
// Format: "products:{normalized_keyword}"
func (s *CatalogService) generateCacheKey(keyword string) string {
	return "products:" + normalizeForCacheKey(keyword)
}

// normalizeForCacheKey normalizes a string for use as cache key component.
// Converts to lowercase, removes special characters, and trims whitespace.
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// getFromCache retrieves a ranked product list from cache. Values are stored
// as JSON text so the memory and redis backends behave identically.
func (s *CatalogService) getFromCache(ctx context.Context, key string) ([]domain.ScoredProduct, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	raw, ok := value.(string)
	if !ok {
		return nil, domain.ErrCacheMiss
	}

	var products []domain.ScoredProduct
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return products, nil
}

// setInCache stores a ranked product list in cache as JSON text
func (s *CatalogService) setInCache(ctx context.Context, key string, products []domain.ScoredProduct) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, string(data), s.cacheTTL)
}
