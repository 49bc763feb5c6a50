// Package handlers contains the gin HTTP handlers of the returns service.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	shopifydomain "github.com/maxari-shop/service-returns/internal/domain/shopify"
	"github.com/maxari-shop/service-returns/internal/services"
)

// SearchHandler serves the order search endpoint backing the return form.
type SearchHandler struct {
	resolver *services.OrderResolutionService
	config   *services.ConfigService
	logger   *zap.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(resolver *services.OrderResolutionService, config *services.ConfigService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		resolver: resolver,
		config:   config,
		logger:   logger,
	}
}

// SearchOrder resolves customer input to their orders
// POST /api/v1/returns/search-order
func (h *SearchHandler) SearchOrder(c *gin.Context) {
	var criteria services.SearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cerere invalidă"})
		return
	}

	result, err := h.resolver.Resolve(c.Request.Context(), criteria)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": validationErr.Message,
				"field": validationErr.Field,
			})
			return
		}

		if shopifydomain.IsUnavailable(err) {
			h.logger.Error("platform unavailable during order search", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Serviciul este momentan indisponibil. Vă rugăm să încercați din nou.",
			})
			return
		}

		h.logger.Error("order search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "A apărut o eroare. Încercați din nou."})
		return
	}

	if result.Failure != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":      result.Failure.Message,
			"code":       result.Failure.Code,
			"needsEmail": result.Failure.NeedsEmail,
		})
		return
	}

	excluded, err := h.config.ExcludedSKUs(c.Request.Context())
	if err != nil {
		h.logger.Warn("failed to load excluded skus, returning unfiltered products", zap.Error(err))
		excluded = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": services.MapOrders(result.Orders, excluded),
	})
}
