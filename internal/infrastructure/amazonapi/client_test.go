package amazonapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nichegen/backend/internal/domain"
)

func TestNewClient(t *testing.T) {
	client := NewClient("test-api-key", "https://amazon-api.example.com", "US")

	assert.NotNil(t, client)
	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Equal(t, "https://amazon-api.example.com", client.baseURL)
	assert.Equal(t, "amazon-api.example.com", client.host)
	assert.Equal(t, "US", client.marketplace)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.False(t, client.debug)
}

func TestNewClient_DefaultMarketplace(t *testing.T) {
	client := NewClient("k", "https://amazon-api.example.com", "")
	assert.Equal(t, "US", client.marketplace)
}

func TestSetDebug(t *testing.T) {
	client := NewClient("k", "https://amazon-api.example.com", "US")

	assert.False(t, client.debug)
	client.SetDebug(true)
	assert.True(t, client.debug)
}

func TestSetRequestsPerMinute(t *testing.T) {
	client := NewClient("k", "https://amazon-api.example.com", "US")
	original := client.rateLimiter

	client.SetRequestsPerMinute(0)
	assert.Same(t, original, client.rateLimiter)

	client.SetRequestsPerMinute(120)
	assert.NotSame(t, original, client.rateLimiter)
	assert.InDelta(t, 2.0, float64(client.rateLimiter.Limit()), 0.001)
	assert.Equal(t, 10, client.rateLimiter.Burst())
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
		})
	}
}

func TestSearchProducts_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "wireless headphones", r.URL.Query().Get("q"))
		assert.Equal(t, "US", r.URL.Query().Get("domain"))
		assert.Equal(t, "24", r.URL.Query().Get("limit"))
		assert.Equal(t, "test-api-key", r.Header.Get("X-RapidAPI-Key"))
		assert.NotEmpty(t, r.Header.Get("X-RapidAPI-Host"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"products":[
			{"asin":"B0AAAAAAA1","title":"Sony WH-1000XM5","product_price":"$278.00","product_star_rating":4.5,"product_num_ratings":12345,"product_photo":"https://img/1.jpg"},
			{"product_asin":"B0BBBBBBB2","product_title":"Generic Headphones","rating":"3.9"},
			{"title":"No ASIN, dropped"}
		]}}`))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL, "US")
	products, err := client.SearchProducts(context.Background(), "wireless headphones", 24)

	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "B0AAAAAAA1", products[0].ASIN)
	assert.Equal(t, "Sony WH-1000XM5", products[0].Title)
	assert.Equal(t, "$278.00", products[0].Price)
	assert.Equal(t, "4.5", products[0].Rating)
	assert.Equal(t, "12345", products[0].ReviewCount)
	assert.Equal(t, "https://img/1.jpg", products[0].ImageURL)

	assert.Equal(t, "B0BBBBBBB2", products[1].ASIN)
	assert.Equal(t, "Generic Headphones", products[1].Title)
	assert.Equal(t, "3.9", products[1].Rating)
}

func TestSearchProducts_BareArrayPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"asin":"B0AAAAAAA1","title":"Thing"}]`))
	}))
	defer server.Close()

	client := NewClient("k", server.URL, "US")
	products, err := client.SearchProducts(context.Background(), "thing", 5)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "B0AAAAAAA1", products[0].ASIN)
}

func TestSearchProducts_TopLevelProductsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products":[{"asin":"B0AAAAAAA1","title":"Thing"}]}`))
	}))
	defer server.Close()

	client := NewClient("k", server.URL, "US")
	products, err := client.SearchProducts(context.Background(), "thing", 5)

	require.NoError(t, err)
	require.Len(t, products, 1)
}

func TestSearchProducts_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"products":[]}}`))
	}))
	defer server.Close()

	client := NewClient("k", server.URL, "US")
	_, err := client.SearchProducts(context.Background(), "nothing", 5)

	assert.ErrorIs(t, err, domain.ErrNoProducts)
}

func TestSearchProducts_RetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"products":[{"asin":"B0AAAAAAA1","title":"Thing"}]}`))
	}))
	defer server.Close()

	client := NewClient("k", server.URL, "US")
	products, err := client.SearchProducts(context.Background(), "thing", 5)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Len(t, products, 1)
}

func TestSearchProducts_GivesUpAfterThreeAttempts(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient("k", server.URL, "US")
	start := time.Now()
	_, err := client.SearchProducts(context.Background(), "thing", 5)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, domain.ErrAmazonAPIFailure)
	assert.Equal(t, 3, attempts)
	// Backoff sleeps only between attempts (0.5s + 1s); no wait after the last
	assert.Less(t, elapsed, 3*time.Second)
}

func TestGetProductDetails_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/product", r.URL.Path)
		assert.Equal(t, "B0AAAAAAA1", r.URL.Query().Get("asin"))

		w.Write([]byte(`{"data":{"asin":"B0AAAAAAA1","title":"Sony WH-1000XM5","original_price":"$399.99"}}`))
	}))
	defer server.Close()

	client := NewClient("k", server.URL, "US")
	product, err := client.GetProductDetails(context.Background(), "B0AAAAAAA1")

	require.NoError(t, err)
	assert.Equal(t, "B0AAAAAAA1", product.ASIN)
	assert.Equal(t, "$399.99", product.OriginalPrice)
}

func TestGetProductDetails_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient("k", server.URL, "US")
	_, err := client.GetProductDetails(context.Background(), "B0MISSING0")

	assert.ErrorIs(t, err, domain.ErrNoProducts)
}
