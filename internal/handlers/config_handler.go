package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/maxari-shop/service-returns/internal/models"
	"github.com/maxari-shop/service-returns/internal/services"
)

// ConfigHandler handles shop configuration API requests.
type ConfigHandler struct {
	service *services.ConfigService
	logger  *zap.Logger
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(service *services.ConfigService, logger *zap.Logger) *ConfigHandler {
	return &ConfigHandler{
		service: service,
		logger:  logger,
	}
}

// GetConfig returns the shop configuration with the access token redacted
// GET /api/v1/admin/config
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	cfg, err := h.service.Get(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to read shop config", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Nu am putut citi configurația"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"domain":       cfg.ShopifyDomain,
		"shopTitle":    cfg.ShopTitle,
		"hasToken":     cfg.ShopifyAccessToken != "",
		"excludedSKUs": cfg.ExcludedSKUs.Data(),
	})
}

// UpdateConfigRequest carries the shop configuration update.
type UpdateConfigRequest struct {
	Domain      string   `json:"domain"`
	AccessToken string   `json:"accessToken"`
	ShopTitle   string   `json:"shopTitle"`
	Excluded    []string `json:"excludedSKUs"`
}

// UpdateConfig saves the shop configuration
// PUT /api/v1/admin/config
func (h *ConfigHandler) UpdateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cerere invalidă"})
		return
	}

	current, err := h.service.Get(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to read shop config", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Nu am putut citi configurația"})
		return
	}

	cfg := &models.ShopConfig{
		ID:                 current.ID,
		ShopifyDomain:      req.Domain,
		ShopifyAccessToken: req.AccessToken,
		ShopTitle:          req.ShopTitle,
		ExcludedSKUs:       datatypes.NewJSONType(req.Excluded),
	}
	// An empty token in the request keeps the stored one.
	if cfg.ShopifyAccessToken == "" {
		cfg.ShopifyAccessToken = current.ShopifyAccessToken
	}

	if err := h.service.Update(c.Request.Context(), cfg); err != nil {
		h.logger.Error("failed to update shop config", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Nu am putut salva configurația"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// UpdateExcludedSKUsRequest carries the excluded SKU list.
type UpdateExcludedSKUsRequest struct {
	SKUs []string `json:"skus"`
}

// UpdateExcludedSKUs replaces the non-returnable SKU list
// PUT /api/v1/admin/config/excluded-skus
func (h *ConfigHandler) UpdateExcludedSKUs(c *gin.Context) {
	var req UpdateExcludedSKUsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cerere invalidă"})
		return
	}

	cfg, err := h.service.UpdateExcludedSKUs(c.Request.Context(), req.SKUs)
	if err != nil {
		h.logger.Error("failed to update excluded skus", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Nu am putut salva lista de SKU-uri"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"excludedSKUs": cfg.ExcludedSKUs.Data()})
}
