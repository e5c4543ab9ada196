package usecase

import (
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/nichegen/backend/internal/domain"
)

// Scoring weights
const (
	premiumBrandBonus  = 50.0  // Title contains a premium brand name
	ratingWeight       = 10.0  // Points per star of rating
	reviewCountDivisor = 500.0 // Reviews contribute count/500 points
)

// defaultTopN is how many products survive ranking when no limit is configured
const defaultTopN = 12

// defaultPremiumBrands are the brand names that grant the scoring bonus.
// Matched case-insensitively as substrings of the product title.
var defaultPremiumBrands = []string{
	"Apple", "Sony", "Bose", "Sennheiser", "Bang & Olufsen",
	"Shure", "Razer", "Logitech", "Samsung", "JBL",
	"Beats", "HP", "Dell", "Lenovo",
}

// RankingConfig holds configuration for the ranking service
type RankingConfig struct {
	PremiumBrands      []string
	Limit              int
	EnableDebugLogging bool
}

// RankingService turns a raw product listing into a bounded, ranked list:
// deduplicate by ASIN, score each product, sort by score, truncate.
type RankingService struct {
	premiumBrands      []string // stored lower-cased
	limit              int
	enableDebugLogging bool
}

// NewRankingService creates a new ranking service with the given configuration
func NewRankingService(config RankingConfig) *RankingService {
	brands := config.PremiumBrands
	if len(brands) == 0 {
		brands = defaultPremiumBrands
	}
	lowered := make([]string, 0, len(brands))
	for _, b := range brands {
		b = strings.ToLower(strings.TrimSpace(b))
		if b != "" {
			lowered = append(lowered, b)
		}
	}

	limit := config.Limit
	if limit <= 0 {
		limit = defaultTopN
	}

	return &RankingService{
		premiumBrands:      lowered,
		limit:              limit,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Limit returns the configured maximum length of a ranked list.
func (s *RankingService) Limit() int {
	return s.limit
}

// RankProducts runs the full pipeline: Deduplicate -> Score -> Rank -> Top.
// Pure and deterministic; never fails. Malformed numeric fields contribute 0
// to the score, and records without an ASIN are silently dropped.
func (s *RankingService) RankProducts(records []domain.RawProduct) []domain.ScoredProduct {
	unique := s.Deduplicate(records)

	scored := make([]domain.ScoredProduct, 0, len(unique))
	for _, p := range unique {
		scored = append(scored, domain.ScoredProduct{
			RawProduct: p,
			Score:      s.Score(p),
		})
	}

	s.Rank(scored)

	if s.enableDebugLogging {
		log.Printf("[RANK] %d records in, %d unique, keeping top %d", len(records), len(unique), s.limit)
	}

	return s.Top(scored, s.limit)
}

// Deduplicate keeps the first record per ASIN, preserving input order.
// Records with an empty ASIN are dropped entirely.
func (s *RankingService) Deduplicate(records []domain.RawProduct) []domain.RawProduct {
	seen := make(map[string]bool, len(records))
	unique := make([]domain.RawProduct, 0, len(records))

	for _, p := range records {
		if p.ASIN == "" {
			continue
		}
		if seen[p.ASIN] {
			continue
		}
		seen[p.ASIN] = true
		unique = append(unique, p)
	}

	return unique
}

// Score computes the ranking score for a single product:
// brand bonus + rating weight + review-volume weight.
func (s *RankingService) Score(p domain.RawProduct) float64 {
	score := 0.0

	if s.isPremiumBrand(p.Title) {
		score += premiumBrandBonus
	}

	score += parseRating(p.Rating) * ratingWeight
	score += float64(parseReviewCount(p.ReviewCount)) / reviewCountDivisor

	return score
}

// Rank sorts products by score, highest first. The sort is stable so that
// records with equal scores keep their input order.
func (s *RankingService) Rank(products []domain.ScoredProduct) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Score > products[j].Score
	})
}

// Top returns the first n products, or all of them when fewer exist.
func (s *RankingService) Top(products []domain.ScoredProduct, n int) []domain.ScoredProduct {
	if n < 0 {
		n = 0
	}
	if len(products) <= n {
		return products
	}
	return products[:n]
}

// isPremiumBrand checks whether the title mentions any premium brand
func (s *RankingService) isPremiumBrand(title string) bool {
	titleLower := strings.ToLower(title)
	for _, brand := range s.premiumBrands {
		if strings.Contains(titleLower, brand) {
			return true
		}
	}
	return false
}

// parseRating parses a string-encoded decimal rating, defaulting to 0
// on malformed or absent input.
func parseRating(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseReviewCount parses a string-encoded integer review count, defaulting
// to 0 on malformed or absent input.
func parseReviewCount(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
