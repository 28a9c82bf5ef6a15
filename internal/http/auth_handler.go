package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskdeck/internal/service"
)

// AuthHandler mantiene dependencias para los endpoints de autenticación.
type AuthHandler struct {
	logger   *zap.Logger
	authServ *service.AuthService
}

func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		authServ: authServ,
	}
}

// Login maneja POST /auth/login. Email desconocido y contraseña incorrecta
// producen exactamente la misma respuesta 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.authServ.ValidateCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		default:
			h.logger.Error("credential validation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not log in"})
		}
		return
	}

	result, err := h.authServ.Login(user)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not log in"})
		return
	}

	c.JSON(http.StatusOK, result)
}
