package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskdeck/internal/service"
)

const authClaimsKey = "auth_claims"

// JWTAuthMiddleware valida el bearer token y guarda los claims en el
// contexto del request. Tiene exactamente dos salidas: sigue con identidad
// adjunta o corta con 401 antes de cualquier lógica de negocio.
func JWTAuthMiddleware(logger *zap.Logger, tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := tokens.Parse(token)
		if err != nil {
			// La razón específica se loguea pero nunca llega al cliente.
			if logger != nil {
				reason := "invalid"
				if errors.Is(err, service.ErrTokenExpired) {
					reason = "expired"
				}
				logger.Debug("token rejected", zap.String("reason", reason), zap.String("path", c.Request.URL.Path))
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// GetAuthClaims obtiene la identidad autenticada desde el contexto.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}
