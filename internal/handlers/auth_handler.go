package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maxari-shop/service-returns/internal/middleware"
	"github.com/maxari-shop/service-returns/internal/services"
)

// AuthHandler handles admin authentication requests.
type AuthHandler struct {
	service *services.AuthService
	logger  *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Register creates an admin account
// POST /api/v1/admin/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input services.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cerere invalidă"})
		return
	}

	user, err := h.service.Register(c.Request.Context(), input)
	if err != nil {
		var validationErr *services.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
		case errors.Is(err, services.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Există deja un cont cu acest email"})
		default:
			h.logger.Error("failed to register admin", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Nu am putut crea contul"})
		}
		return
	}

	c.JSON(http.StatusCreated, user)
}

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"parola" binding:"required"`
}

// Login verifies credentials and issues a session token
// POST /api/v1/admin/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email și parolă obligatorii"})
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email sau parolă incorecte"})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Nu am putut efectua autentificarea"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Check reports whether the current session is valid
// GET /api/v1/admin/auth/check
func (h *AuthHandler) Check(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"userId":        userID,
	})
}

// Logout ends the session. Tokens are stateless, so this is a client-side
// discard acknowledged by the server.
// POST /api/v1/admin/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"loggedOut": true})
}
