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

// UserService coordina reglas de negocio para usuarios.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
	hasher *PasswordHasher
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, hasher *PasswordHasher) *UserService {
	return &UserService{
		logger: logger,
		users:  users,
		hasher: hasher,
	}
}

type RegisterInput struct {
	Email    string
	FullName string
	Password string
}

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email taken")
	ErrInvalidEmail  = errors.New("invalid email")
	ErrEmptyPassword = errors.New("empty password")
)

// Register crea un usuario con la contraseña hasheada; el texto plano
// nunca se persiste ni se loguea.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}
	password := strings.TrimSpace(input.Password)
	if password == "" {
		return domain.User{}, ErrEmptyPassword
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	return user, nil
}

// GetProfile devuelve el perfil público de un usuario por id.
func (s *UserService) GetProfile(ctx context.Context, id string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user.PublicProfile(), nil
}
