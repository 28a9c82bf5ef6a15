package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"taskdeck/internal/domain"
	"taskdeck/internal/repository"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if _, exists := m.usersByEmail[user.Email]; exists {
		return repository.ErrDuplicate
	}
	m.usersByID[user.ID] = user
	if user.Email != "" {
		m.usersByEmail[user.Email] = user.ID
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

type mockCategoryRepo struct {
	categories map[string]domain.Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[string]domain.Category)}
}

func (m *mockCategoryRepo) Create(_ context.Context, category domain.Category) error {
	for _, c := range m.categories {
		if c.Name == category.Name {
			return repository.ErrDuplicate
		}
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id string) (domain.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return domain.Category{}, pgx.ErrNoRows
	}
	return category, nil
}

func (m *mockCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCategoryRepo) Rename(_ context.Context, id, name string) error {
	category, ok := m.categories[id]
	if !ok {
		return pgx.ErrNoRows
	}
	category.Name = name
	m.categories[id] = category
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.categories, id)
	return nil
}

type mockTaskRepo struct {
	tasks      map[string]domain.Task
	lastFilter repository.TaskFilter
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]domain.Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, task domain.Task) error {
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (domain.Task, error) {
	task, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, pgx.ErrNoRows
	}
	return task, nil
}

func (m *mockTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	m.lastFilter = filter
	var out []domain.Task
	for _, task := range m.tasks {
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.CategoryID != "" && task.CategoryID != filter.CategoryID {
			continue
		}
		if filter.AssigneeID != "" && task.AssigneeID != filter.AssigneeID {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (m *mockTaskRepo) Update(_ context.Context, task domain.Task) error {
	if _, ok := m.tasks[task.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.tasks[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.tasks, id)
	return nil
}

type mockCommentRepo struct {
	comments map[string][]domain.Comment
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{comments: make(map[string][]domain.Comment)}
}

func (m *mockCommentRepo) Create(_ context.Context, comment domain.Comment) error {
	m.comments[comment.TaskID] = append(m.comments[comment.TaskID], comment)
	return nil
}

func (m *mockCommentRepo) ListByTaskID(_ context.Context, taskID string) ([]domain.Comment, error) {
	return m.comments[taskID], nil
}
