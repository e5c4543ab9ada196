package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nichegen/backend/internal/domain"
	"github.com/nichegen/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog *usecase.CatalogService
	ranker  *usecase.RankingService
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog *usecase.CatalogService, ranker *usecase.RankingService) *Handler {
	return &Handler{
		catalog: catalog,
		ranker:  ranker,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nichegen-backend",
		"version": "1.0.0",
	})
}

// rankRequest is the body of POST /api/v1/products/rank
type rankRequest struct {
	Products []domain.RawProduct `json:"products" binding:"required"`
	Limit    int                 `json:"limit"`
}

// RankProducts ranks a caller-supplied product list: deduplicate, score,
// sort, truncate. An optional request limit may tighten, never widen, the
// configured one.
func (h *Handler) RankProducts(c *gin.Context) {
	var req rankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	records := make([]domain.RawProduct, len(req.Products))
	for i, p := range req.Products {
		records[i] = usecase.NormalizeRecord(p)
	}

	ranked := h.ranker.RankProducts(records)
	if req.Limit > 0 && req.Limit < len(ranked) {
		ranked = ranked[:req.Limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(ranked),
		"products": ranked,
	})
}

// SearchProducts returns the ranked catalog results for a keyword
func (h *Handler) SearchProducts(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword query parameter is required"})
		return
	}

	products, err := h.catalog.SearchRanked(c.Request.Context(), keyword)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"keyword":  keyword,
		"count":    len(products),
		"products": products,
	})
}

// statusForError maps domain errors onto HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoProducts):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAmazonAPIFailure):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
