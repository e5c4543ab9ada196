package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNoProducts is returned when a search yields no usable products
	ErrNoProducts = errors.New("no products found")

	// ErrAmazonAPIFailure is returned when the Amazon API request fails
	ErrAmazonAPIFailure = errors.New("amazon API request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrTemplateNotFound is returned when a site template cannot be loaded
	ErrTemplateNotFound = errors.New("site template not found")

	// ErrNichesNotFound is returned when the niches CSV file cannot be read
	ErrNichesNotFound = errors.New("niches file not found")
)
