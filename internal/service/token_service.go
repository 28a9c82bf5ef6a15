package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskdeck/internal/domain"
)

// TokenService emite y valida tokens JWT de acceso firmados con HS256.
// El secreto y el TTL se inyectan una sola vez en la construcción.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "taskdeck",
	}
}

// Issue firma un token con subject = id del usuario y expiración now + TTL.
func (s *TokenService) Issue(user domain.User) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}
	now := time.Now().UTC()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse valida firma, método, emisor y expiración. Devuelve ErrTokenExpired
// o ErrTokenInvalid como detalle interno; el borde HTTP nunca distingue
// ambos hacia el cliente.
func (s *TokenService) Parse(tokenString string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrTokenInvalid
	}

	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !s.isValidClaims(claims) {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

func (s *TokenService) isValidClaims(claims Claims) bool {
	if strings.TrimSpace(claims.UserID) == "" {
		return false
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return false
	}
	if claims.Subject != claims.UserID {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
