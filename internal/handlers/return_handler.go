package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maxari-shop/service-returns/internal/models"
	"github.com/maxari-shop/service-returns/internal/repository"
	"github.com/maxari-shop/service-returns/internal/services"
)

// ReturnHandler handles return record API requests.
type ReturnHandler struct {
	service *services.ReturnService
	logger  *zap.Logger
}

// NewReturnHandler creates a new ReturnHandler.
func NewReturnHandler(service *services.ReturnService, logger *zap.Logger) *ReturnHandler {
	return &ReturnHandler{
		service: service,
		logger:  logger,
	}
}

// CreateReturn registers a new return after signature capture
// POST /api/v1/returns
func (h *ReturnHandler) CreateReturn(c *gin.Context) {
	var input services.CreateReturnInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cerere invalidă"})
		return
	}

	ret, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": validationErr.Message,
				"field": validationErr.Field,
			})
			return
		}

		h.logger.Error("failed to create return", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Nu am putut înregistra returul. Încercați din nou."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"idRetur": ret.ReturnID,
		"status":  ret.Status,
		"total":   ret.TotalRefund,
	})
}

// GetReturnPDF downloads the receipt for a return
// GET /api/v1/returns/:id/pdf
func (h *ReturnHandler) GetReturnPDF(c *gin.Context) {
	returnID := c.Param("id")

	data, err := h.service.GetPDF(c.Request.Context(), returnID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Returul nu a fost găsit"})
			return
		}
		h.logger.Error("failed to read return pdf", zap.String("return_id", returnID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Nu am putut citi documentul"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+returnID+".pdf")
	c.Data(http.StatusOK, "application/pdf", data)
}

// UpdateDocumentsRequest carries the post-shipment documents.
type UpdateDocumentsRequest struct {
	AWBNumber            string `json:"awbNumber"`
	ShippingReceiptPhoto string `json:"shippingReceiptPhoto"`
	PackageLabelPhoto    string `json:"packageLabelPhoto"`
}

// UpdateDocuments attaches shipping documents to a return
// PATCH /api/v1/returns/:id/documents
func (h *ReturnHandler) UpdateDocuments(c *gin.Context) {
	returnID := c.Param("id")

	var req UpdateDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cerere invalidă"})
		return
	}

	ret, err := h.service.UpdateDocuments(c.Request.Context(), returnID, req.AWBNumber, req.ShippingReceiptPhoto, req.PackageLabelPhoto)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Returul nu a fost găsit"})
			return
		}
		h.logger.Error("failed to update return documents", zap.String("return_id", returnID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Nu am putut salva documentele"})
		return
	}

	c.JSON(http.StatusOK, ret)
}

// ListReturns lists all returns, newest first
// GET /api/v1/admin/returns
func (h *ReturnHandler) ListReturns(c *gin.Context) {
	returns, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list returns", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Nu am putut lista retururile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"returns": returns,
		"total":   len(returns),
	})
}

// GetReturn fetches a single return
// GET /api/v1/admin/returns/:id
func (h *ReturnHandler) GetReturn(c *gin.Context) {
	returnID := c.Param("id")

	ret, err := h.service.Get(c.Request.Context(), returnID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Returul nu a fost găsit"})
			return
		}
		h.logger.Error("failed to get return", zap.String("return_id", returnID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Nu am putut citi returul"})
		return
	}

	c.JSON(http.StatusOK, ret)
}

// UpdateStatusRequest carries a lifecycle transition.
type UpdateStatusRequest struct {
	Status models.ReturnStatus `json:"status" binding:"required"`
}

// UpdateReturnStatus applies a lifecycle transition
// PATCH /api/v1/admin/returns/:id/status
func (h *ReturnHandler) UpdateReturnStatus(c *gin.Context) {
	returnID := c.Param("id")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status lipsă sau invalid"})
		return
	}

	ret, err := h.service.UpdateStatus(c.Request.Context(), returnID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Returul nu a fost găsit"})
		case errors.Is(err, services.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Tranziție de status invalidă"})
		default:
			h.logger.Error("failed to update return status", zap.String("return_id", returnID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Nu am putut actualiza statusul"})
		}
		return
	}

	c.JSON(http.StatusOK, ret)
}

// UpdateReturn saves an admin edit of the full record
// PUT /api/v1/admin/returns/:id
func (h *ReturnHandler) UpdateReturn(c *gin.Context) {
	returnID := c.Param("id")

	var ret models.Return
	if err := c.ShouldBindJSON(&ret); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cerere invalidă"})
		return
	}
	ret.ReturnID = returnID

	if err := h.service.Update(c.Request.Context(), &ret); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Returul nu a fost găsit"})
			return
		}
		h.logger.Error("failed to update return", zap.String("return_id", returnID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Nu am putut salva returul"})
		return
	}

	c.JSON(http.StatusOK, ret)
}

// DeleteReturn removes a return and its PDF
// DELETE /api/v1/admin/returns/:id
func (h *ReturnHandler) DeleteReturn(c *gin.Context) {
	returnID := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), returnID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Returul nu a fost găsit"})
			return
		}
		h.logger.Error("failed to delete return", zap.String("return_id", returnID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Nu am putut șterge returul"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": returnID})
}
