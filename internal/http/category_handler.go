package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"taskdeck/internal/domain"
	"taskdeck/internal/repository"
)

// CategoryHandler mantiene dependencias para endpoints de categorías.
type CategoryHandler struct {
	logger     *zap.Logger
	categories repository.CategoryRepository
}

func NewCategoryHandler(logger *zap.Logger, categories repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{
		logger:     logger,
		categories: categories,
	}
}

// Create maneja POST /categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create category request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	claims, _ := GetAuthClaims(c)
	category := domain.Category{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		CreatedBy: claims.UserID,
		CreatedAt: time.Now().UTC(),
	}
	if category.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.categories.Create(c.Request.Context(), category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "category name already exists"})
			return
		}
		h.logger.Error("create category failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create category"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// List maneja GET /categories.
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list categories failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list categories"})
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetByID maneja GET /categories/:id.
func (h *CategoryHandler) GetByID(c *gin.Context) {
	category, err := h.categories.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		h.logger.Error("get category failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// Rename maneja PUT /categories/:id.
func (h *CategoryHandler) Rename(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid rename category request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.categories.Rename(c.Request.Context(), c.Param("id"), name)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		case errors.Is(err, repository.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "category name already exists"})
		default:
			h.logger.Error("rename category failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not rename category"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "renamed"})
}

// Delete maneja DELETE /categories/:id.
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		h.logger.Error("delete category failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
