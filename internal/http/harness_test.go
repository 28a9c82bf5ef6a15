package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskdeck/internal/domain"
	"taskdeck/internal/repository"
	"taskdeck/internal/service"
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
	for _, c := range m.categories {
		if c.ID != id && c.Name == name {
			return repository.ErrDuplicate
		}
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
	tasks map[string]domain.Task
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

type testEnv struct {
	router *gin.Engine
	tokens *service.TokenService
	users  *mockUserRepo
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	users := newMockUserRepo()
	categories := newMockCategoryRepo()
	tasks := newMockTaskRepo()
	comments := newMockCommentRepo()

	hasher := service.NewPasswordHasher(bcrypt.MinCost)
	tokens := service.NewTokenService("test-secret", time.Hour)
	authSvc := service.NewAuthService(logger, users, hasher, tokens, service.NewLoginRateLimiter(time.Minute, 100))
	userSvc := service.NewUserService(logger, users, hasher)
	taskSvc := service.NewTaskService(logger, tasks, categories, users, comments)

	router := NewRouter(
		logger,
		tokens,
		NewAuthHandler(logger, authSvc),
		NewUserHandler(logger, userSvc),
		NewCategoryHandler(logger, categories),
		NewTaskHandler(logger, taskSvc),
		nil,
	)

	return testEnv{router: router, tokens: tokens, users: users}
}

func (e testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// register + login devolviendo el token para requests protegidos.
func (e testEnv) registerAndLogin(t *testing.T, email, password string) (string, domain.User) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/users", "", gin.H{
		"email":     email,
		"full_name": "Ana Ruiz",
		"password":  password,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		AccessToken string      `json:"access_token"`
		User        domain.User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatalf("expected access token in login response")
	}
	return resp.AccessToken, resp.User
}
