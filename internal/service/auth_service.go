package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"taskdeck/internal/domain"
	"taskdeck/internal/repository"
)

// AuthService coordina validación de credenciales y emisión de tokens.
// Ambos pasos son independientes para poder probarlos y componerlos
// por separado.
type AuthService struct {
	logger  *zap.Logger
	users   repository.UserRepository
	hasher  *PasswordHasher
	tokens  *TokenService
	limiter LoginRateLimiter
}

// LoginResult es lo único que otros módulos ven tras autenticarse:
// el token y el perfil público, nunca el hash.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	User        domain.User `json:"user"`
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("rate limited")
	// ErrIdentityIncomplete señala un bug del llamador: Login recibió una
	// identidad sin validar o incompleta.
	ErrIdentityIncomplete = errors.New("identity missing id or email")
)

func NewAuthService(logger *zap.Logger, users repository.UserRepository, hasher *PasswordHasher, tokens *TokenService, limiter LoginRateLimiter) *AuthService {
	if limiter == nil {
		limiter = NewLoginRateLimiter(loginWindow, loginMaxAttempts)
	}
	return &AuthService{
		logger:  logger,
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		limiter: limiter,
	}
}

// ValidateCredentials busca el registro por email y verifica la contraseña.
// Email desconocido y contraseña incorrecta convergen en el mismo
// ErrInvalidCredentials: el llamador no puede distinguirlos.
func (s *AuthService) ValidateCredentials(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("auth service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	if s.limiter != nil && !s.limiter.Allow(emailAddr) {
		return domain.User{}, ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Login emite el token para una identidad ya validada por el llamador.
func (s *AuthService) Login(user domain.User) (LoginResult, error) {
	if strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Email) == "" {
		return LoginResult{}, ErrIdentityIncomplete
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		AccessToken: token,
		User:        user.PublicProfile(),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
