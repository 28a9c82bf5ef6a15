package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"taskdeck/internal/domain"
	"taskdeck/internal/repository"
)

// TaskService coordina reglas de negocio para tareas y sus comentarios.
type TaskService struct {
	logger     *zap.Logger
	tasks      repository.TaskRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	comments   repository.CommentRepository
}

func NewTaskService(
	logger *zap.Logger,
	tasks repository.TaskRepository,
	categories repository.CategoryRepository,
	users repository.UserRepository,
	comments repository.CommentRepository,
) *TaskService {
	return &TaskService{
		logger:     logger,
		tasks:      tasks,
		categories: categories,
		users:      users,
		comments:   comments,
	}
}

type CreateTaskInput struct {
	Title       string
	Description string
	CategoryID  string
	AssigneeID  string
	DueDate     *time.Time
}

type UpdateTaskInput struct {
	Title       string
	Description string
	Status      string
	CategoryID  string
	AssigneeID  string
	DueDate     *time.Time
}

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrAssigneeNotFound = errors.New("assignee not found")
	ErrInvalidStatus    = errors.New("invalid task status")
	ErrEmptyTitle       = errors.New("empty task title")
	ErrEmptyBody        = errors.New("empty comment body")
)

const (
	defaultTaskPageSize = 20
	maxTaskPageSize     = 100
)

// CreateTask registra una tarea nueva con estado inicial "open" y
// created_by estampado con la identidad autenticada.
func (s *TaskService) CreateTask(ctx context.Context, creatorID string, input CreateTaskInput) (domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domain.Task{}, ErrEmptyTitle
	}

	if err := s.checkReferences(ctx, input.CategoryID, input.AssigneeID); err != nil {
		return domain.Task{}, err
	}

	now := time.Now().UTC()
	task := domain.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TaskStatusOpen,
		CategoryID:  input.CategoryID,
		AssigneeID:  input.AssigneeID,
		CreatedBy:   creatorID,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// GetTask devuelve una tarea por id.
func (s *TaskService) GetTask(ctx context.Context, id string) (domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, ErrTaskNotFound
		}
		return domain.Task{}, err
	}
	return task, nil
}

// ListTasks normaliza el filtro (status válido, límite acotado) y delega
// la composición de la consulta al repositorio.
func (s *TaskService) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	if filter.Status != "" && !domain.ValidTaskStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultTaskPageSize
	}
	if filter.Limit > maxTaskPageSize {
		filter.Limit = maxTaskPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.tasks.List(ctx, filter)
}

// UpdateTask aplica cambios sobre una tarea existente.
func (s *TaskService) UpdateTask(ctx context.Context, id string, input UpdateTaskInput) (domain.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		task.Title = title
	}
	if input.Description != "" {
		task.Description = strings.TrimSpace(input.Description)
	}
	if input.Status != "" {
		if !domain.ValidTaskStatus(input.Status) {
			return domain.Task{}, ErrInvalidStatus
		}
		task.Status = input.Status
	}
	if err := s.checkReferences(ctx, input.CategoryID, input.AssigneeID); err != nil {
		return domain.Task{}, err
	}
	if input.CategoryID != "" {
		task.CategoryID = input.CategoryID
	}
	if input.AssigneeID != "" {
		task.AssigneeID = input.AssigneeID
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, ErrTaskNotFound
		}
		return domain.Task{}, err
	}
	return task, nil
}

// DeleteTask elimina una tarea por id.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

// AddComment agrega un comentario a una tarea existente; el autor se
// estampa con la identidad autenticada.
func (s *TaskService) AddComment(ctx context.Context, taskID, authorID, body string) (domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.Comment{}, ErrEmptyBody
	}
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return domain.Comment{}, err
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}

// ListComments devuelve los comentarios de una tarea en orden cronológico.
func (s *TaskService) ListComments(ctx context.Context, taskID string) ([]domain.Comment, error) {
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.comments.ListByTaskID(ctx, taskID)
}

func (s *TaskService) checkReferences(ctx context.Context, categoryID, assigneeID string) error {
	if categoryID != "" {
		if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrCategoryNotFound
			}
			return err
		}
	}
	if assigneeID != "" {
		if _, err := s.users.GetByID(ctx, assigneeID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrAssigneeNotFound
			}
			return err
		}
	}
	return nil
}
