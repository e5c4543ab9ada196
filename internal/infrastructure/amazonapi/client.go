package amazonapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/nichegen/backend/internal/domain"
)

// Client handles communication with the RapidAPI real-time Amazon data API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	host        string // X-RapidAPI-Host header, derived from baseURL
	marketplace string // Amazon marketplace, e.g. "US"
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Amazon API client
func NewClient(apiKey, baseURL, marketplace string) *Client {
	if marketplace == "" {
		marketplace = "US"
	}

	host := baseURL
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		host = u.Host
	}

	// RapidAPI free tiers allow roughly one request per second
	limiter := rate.NewLimiter(rate.Limit(1), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		host:        host,
		marketplace: marketplace,
		rateLimiter: limiter,
	}
}

// SetDebug enables or disables request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// SetRequestsPerMinute replaces the default limiter with one sized for the
// subscribed RapidAPI plan. Non-positive values keep the default.
func (c *Client) SetRequestsPerMinute(n int) {
	if n <= 0 {
		return
	}
	burst := n / 12
	if burst < 1 {
		burst = 1
	}
	c.rateLimiter = rate.NewLimiter(rate.Limit(float64(n)/60.0), burst)
}

// doRequest executes an HTTP GET request with RapidAPI headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("User-Agent", "NicheGen/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAmazonAPIFailure, err)
	}

	return resp, nil
}

// maxSearchAttempts bounds the search retry loop
const maxSearchAttempts = 3

// exponentialBackoff returns the wait before retrying a failed attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// SearchProducts searches the Amazon catalog for a keyword.
// Retries transient failures up to 3 times with exponential backoff.
func (c *Client) SearchProducts(ctx context.Context, keyword string, limit int) ([]domain.RawProduct, error) {
	if limit <= 0 {
		limit = 10
	}

	endpoint := fmt.Sprintf("%s/search", c.baseURL)
	params := url.Values{}
	params.Add("q", keyword)
	params.Add("domain", c.marketplace)
	params.Add("limit", strconv.Itoa(limit))

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxSearchAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if c.debug {
				log.Printf("[AMAZON] Search request error (attempt %d): %v", attempt, err)
			}
			lastErr = err
			if attempt < maxSearchAttempts {
				time.Sleep(exponentialBackoff(attempt))
			}
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			if c.debug {
				log.Printf("[AMAZON] Rate limited by API (attempt %d)", attempt)
			}
			lastErr = domain.ErrRateLimited
			if attempt < maxSearchAttempts {
				time.Sleep(exponentialBackoff(attempt))
			}
			continue
		}
		if resp.StatusCode != http.StatusOK {
			if c.debug {
				log.Printf("[AMAZON] Search error (attempt %d) - status %d, body: %s", attempt, resp.StatusCode, string(body))
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrAmazonAPIFailure, resp.StatusCode)
			if attempt < maxSearchAttempts {
				time.Sleep(exponentialBackoff(attempt))
			}
			continue
		}

		products, err := decodeSearchPayload(body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode search response: %w", err)
		}
		if len(products) == 0 {
			return nil, domain.ErrNoProducts
		}

		if c.debug {
			log.Printf("[AMAZON] Found %d products for %q", len(products), keyword)
		}
		return products, nil
	}

	return nil, lastErr
}

// GetProductDetails retrieves full product information for one ASIN.
func (c *Client) GetProductDetails(ctx context.Context, asin string) (*domain.RawProduct, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	endpoint := fmt.Sprintf("%s/product", c.baseURL)
	params := url.Values{}
	params.Add("asin", asin)
	params.Add("domain", c.marketplace)

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNoProducts
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrAmazonAPIFailure, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	product, err := decodeProductPayload(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode product response: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNoProducts
	}

	return product, nil
}

// decodeSearchPayload handles the response shape variants the API returns:
// {"data":{"products":[...]}}, {"products":[...]}, or a bare array.
func decodeSearchPayload(body []byte) ([]domain.RawProduct, error) {
	var wrapped struct {
		Data struct {
			Products []apiProduct `json:"products"`
		} `json:"data"`
		Products []apiProduct `json:"products"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if len(wrapped.Data.Products) > 0 {
			return mapProducts(wrapped.Data.Products), nil
		}
		// An empty but well-formed object payload is a valid empty result
		return mapProducts(wrapped.Products), nil
	}

	var bare []apiProduct
	if err := json.Unmarshal(body, &bare); err == nil {
		return mapProducts(bare), nil
	}

	return nil, fmt.Errorf("unrecognized search payload")
}

// decodeProductPayload handles {"data":{...}} wrapping on detail responses
func decodeProductPayload(body []byte) (*domain.RawProduct, error) {
	var wrapped struct {
		Data *apiProduct `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Data != nil && wrapped.Data.anyASIN() != "" {
		p := wrapped.Data.toDomain()
		return &p, nil
	}

	var bare apiProduct
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, err
	}
	if bare.anyASIN() == "" {
		return nil, nil
	}
	p := bare.toDomain()
	return &p, nil
}
