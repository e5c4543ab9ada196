package amazonapi

import (
	"encoding/json"
	"strings"

	"github.com/nichegen/backend/internal/domain"
)

// flexString decodes a JSON field that may arrive as a string or a number.
// The API mixes both across endpoints ("4.5" vs 4.5).
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}

	// Unexpected shape (object, bool); treat as absent
	*f = ""
	return nil
}

// apiProduct mirrors the upstream product payload. Every field has two
// possible names depending on the endpoint.
type apiProduct struct {
	ASIN          string     `json:"asin"`
	ProductASIN   string     `json:"product_asin"`
	Title         string     `json:"title"`
	ProductTitle  string     `json:"product_title"`
	Brand         string     `json:"brand"`
	ProductBrand  string     `json:"product_brand"`
	Image         string     `json:"image"`
	ProductPhoto  string     `json:"product_photo"`
	URL           string     `json:"url"`
	ProductURL    string     `json:"product_url"`
	Price         flexString `json:"price"`
	ProductPrice  flexString `json:"product_price"`
	OrigPrice     flexString `json:"original_price"`
	ProductOrig   flexString `json:"product_original_price"`
	Rating        flexString `json:"rating"`
	StarRating    flexString `json:"product_star_rating"`
	ReviewCount   flexString `json:"reviews_count"`
	NumRatings    flexString `json:"product_num_ratings"`
}

func (p *apiProduct) anyASIN() string {
	return firstNonEmpty(p.ASIN, p.ProductASIN)
}

// toDomain maps the payload onto the domain record, preferring the short
// field names and falling back to the product_-prefixed variants.
func (p *apiProduct) toDomain() domain.RawProduct {
	return domain.RawProduct{
		ASIN:          p.anyASIN(),
		Title:         firstNonEmpty(p.Title, p.ProductTitle),
		Brand:         firstNonEmpty(p.Brand, p.ProductBrand),
		Rating:        firstNonEmpty(string(p.Rating), string(p.StarRating)),
		ReviewCount:   firstNonEmpty(string(p.ReviewCount), string(p.NumRatings)),
		Price:         firstNonEmpty(string(p.Price), string(p.ProductPrice)),
		OriginalPrice: firstNonEmpty(string(p.OrigPrice), string(p.ProductOrig)),
		ImageURL:      firstNonEmpty(p.Image, p.ProductPhoto),
		URL:           firstNonEmpty(p.URL, p.ProductURL),
	}
}

// mapProducts converts payload products, dropping entries without an ASIN
func mapProducts(items []apiProduct) []domain.RawProduct {
	products := make([]domain.RawProduct, 0, len(items))
	for i := range items {
		if items[i].anyASIN() == "" {
			continue
		}
		products = append(products, items[i].toDomain())
	}
	return products
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
