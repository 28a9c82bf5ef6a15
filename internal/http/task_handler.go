package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskdeck/internal/domain"
	"taskdeck/internal/repository"
	"taskdeck/internal/service"
)

// TaskHandler mantiene dependencias para endpoints de tareas y comentarios.
type TaskHandler struct {
	logger   *zap.Logger
	taskServ *service.TaskService
}

func NewTaskHandler(logger *zap.Logger, taskServ *service.TaskService) *TaskHandler {
	return &TaskHandler{
		logger:   logger,
		taskServ: taskServ,
	}
}

// Create maneja POST /tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	var req struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		CategoryID  string     `json:"category_id"`
		AssigneeID  string     `json:"assignee_id"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create task request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	task, err := h.taskServ.CreateTask(c.Request.Context(), claims.UserID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.writeTaskError(c, err, "create task failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// List maneja GET /tasks con filtros opcionales y paginación.
func (h *TaskHandler) List(c *gin.Context) {
	filter := repository.TaskFilter{
		Status:     c.Query("status"),
		CategoryID: c.Query("category_id"),
		AssigneeID: c.Query("assignee_id"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
			return
		}
		filter.Offset = offset
	}

	tasks, err := h.taskServ.ListTasks(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		h.logger.Error("list tasks failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list tasks"})
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GetByID maneja GET /tasks/:id.
func (h *TaskHandler) GetByID(c *gin.Context) {
	task, err := h.taskServ.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeTaskError(c, err, "get task failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// Update maneja PUT /tasks/:id.
func (h *TaskHandler) Update(c *gin.Context) {
	var req struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		CategoryID  string     `json:"category_id"`
		AssigneeID  string     `json:"assignee_id"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update task request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	task, err := h.taskServ.UpdateTask(c.Request.Context(), c.Param("id"), service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		CategoryID:  req.CategoryID,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.writeTaskError(c, err, "update task failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// Delete maneja DELETE /tasks/:id.
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.taskServ.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		h.writeTaskError(c, err, "delete task failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// AddComment maneja POST /tasks/:id/comments.
func (h *TaskHandler) AddComment(c *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid add comment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	comment, err := h.taskServ.AddComment(c.Request.Context(), c.Param("id"), claims.UserID, req.Body)
	if err != nil {
		h.writeTaskError(c, err, "add comment failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// ListComments maneja GET /tasks/:id/comments.
func (h *TaskHandler) ListComments(c *gin.Context) {
	comments, err := h.taskServ.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeTaskError(c, err, "list comments failed")
		return
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *TaskHandler) writeTaskError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.Is(err, service.ErrCategoryNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "category not found"})
	case errors.Is(err, service.ErrAssigneeNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "assignee not found"})
	case errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
	case errors.Is(err, service.ErrEmptyTitle), errors.Is(err, service.ErrEmptyBody):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
