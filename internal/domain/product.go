package domain

// RawProduct represents a product record as returned by the Amazon search API.
// Rating and ReviewCount stay string-encoded because the upstream API returns
// them inconsistently; numeric parsing happens at the scoring boundary with a
// zero default for malformed values.
type RawProduct struct {
	ASIN          string `json:"asin"`
	Title         string `json:"title"`
	Brand         string `json:"brand,omitempty"`
	Rating        string `json:"rating,omitempty"`
	ReviewCount   string `json:"reviewCount,omitempty"`
	Price         string `json:"price,omitempty"`
	OriginalPrice string `json:"originalPrice,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
	URL           string `json:"url,omitempty"`
}

// ScoredProduct is a RawProduct with its computed ranking score.
// Created once per unique raw record and immutable afterwards.
type ScoredProduct struct {
	RawProduct
	Score float64 `json:"score"`
}

// ProductInfo holds the display-ready fields used to render a product card
// on a generated site.
type ProductInfo struct {
	ASIN          string `json:"asin"`
	Title         string `json:"title"`
	ImageURL      string `json:"imageUrl"`
	Price         string `json:"price"`         // e.g., "$129.99" or "Price not available"
	OriginalPrice string `json:"originalPrice"` // empty when absent
	Discount      int    `json:"discount"`      // percent off, 0 when not discounted
	AffiliateLink string `json:"affiliateLink"`
}
