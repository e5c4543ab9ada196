package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// AmazonClient defines the interface for the real-time Amazon product API
type AmazonClient interface {
	SearchProducts(ctx context.Context, keyword string, limit int) ([]RawProduct, error)
	GetProductDetails(ctx context.Context, asin string) (*RawProduct, error)
}
