package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nichegen/backend/internal/domain"
)

// Compiled regex patterns for field normalization
var (
	// Strips currency symbols and thousands separators from price text
	priceNoiseRegex = regexp.MustCompile(`[$,\s]`)

	// Strips thousands separators and surrounding noise from review counts
	reviewNoiseRegex = regexp.MustCompile(`[,\s]`)
)

// Extractor normalizes raw API records into display-ready product info.
// Malformed numeric text never fails extraction; it degrades to a zero
// contribution (no discount, no price display).
type Extractor struct {
	affiliateTag string
}

// NewExtractor creates an extractor that builds affiliate links with the
// given Amazon Associates tag.
func NewExtractor(affiliateTag string) *Extractor {
	return &Extractor{affiliateTag: affiliateTag}
}

// ExtractProductInfo builds the display fields for one product.
// Returns nil when the record is missing a title, image, or ASIN; such
// records are skipped by callers, never treated as errors.
func (e *Extractor) ExtractProductInfo(p domain.RawProduct) *domain.ProductInfo {
	if p.Title == "" || p.ImageURL == "" || p.ASIN == "" {
		return nil
	}

	price := normalizePriceText(p.Price)
	originalPrice := normalizePriceText(p.OriginalPrice)

	info := &domain.ProductInfo{
		ASIN:          p.ASIN,
		Title:         p.Title,
		ImageURL:      p.ImageURL,
		Discount:      discountPercent(price, originalPrice),
		AffiliateLink: e.AffiliateLink(p.ASIN),
	}

	if price != "" {
		info.Price = "$" + price
	} else {
		info.Price = "Price not available"
	}
	if originalPrice != "" {
		info.OriginalPrice = "$" + originalPrice
	}

	return info
}

// AffiliateLink builds the tagged Amazon product URL for an ASIN.
func (e *Extractor) AffiliateLink(asin string) string {
	if asin == "" {
		return ""
	}
	return fmt.Sprintf("https://www.amazon.com/dp/%s?tag=%s", asin, e.affiliateTag)
}

// NormalizeRecord cleans the string-encoded numeric fields of a raw record
// so downstream parsing sees plain decimal text. This is the boundary where
// "1,234" review counts and "$1,299.99" prices become parseable; anything
// unparseable is left for the parse-with-default step to zero out.
func NormalizeRecord(p domain.RawProduct) domain.RawProduct {
	p.Price = normalizePriceText(p.Price)
	p.OriginalPrice = normalizePriceText(p.OriginalPrice)
	p.Rating = strings.TrimSpace(p.Rating)
	p.ReviewCount = reviewNoiseRegex.ReplaceAllString(p.ReviewCount, "")
	return p
}

// normalizePriceText strips currency formatting, returning bare decimal text
// or "" when nothing numeric remains.
func normalizePriceText(s string) string {
	cleaned := priceNoiseRegex.ReplaceAllString(s, "")
	if cleaned == "" {
		return ""
	}
	if _, err := strconv.ParseFloat(cleaned, 64); err != nil {
		return ""
	}
	return cleaned
}

// discountPercent computes the percent saved against the original price.
// Returns 0 for malformed prices, zero originals, or markups.
func discountPercent(price, originalPrice string) int {
	if price == "" || originalPrice == "" {
		return 0
	}

	p, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return 0
	}
	o, err := strconv.ParseFloat(originalPrice, 64)
	if err != nil || o <= 0 {
		return 0
	}

	if o <= p {
		return 0
	}
	return int((o - p) / o * 100)
}
