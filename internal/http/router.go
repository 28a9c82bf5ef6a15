package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"taskdeck/internal/service"
)

// HealthChecker informa si las dependencias del servicio responden.
type HealthChecker func(ctx context.Context) error

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	tokens *service.TokenService,
	authH *AuthHandler,
	userH *UserHandler,
	categoryH *CategoryHandler,
	taskH *TaskHandler,
	health HealthChecker,
) *gin.Engine {
	r := gin.New()

	metrics := newHTTPMetrics()

	// Middlewares basicos: logging, recovery, metrics y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), metrics.middleware(), jsonContentTypeMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := health(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Rutas públicas: registro y login.
	r.POST("/users", userH.Register)
	auth := r.Group("/auth")
	auth.POST("/login", authH.Login)

	// Todo lo demás pasa por el gate de autorización.
	protected := r.Group("/", JWTAuthMiddleware(logger, tokens))

	users := protected.Group("/users")
	users.GET("/me", userH.Me)
	users.GET("/:id", userH.GetByID)

	categories := protected.Group("/categories")
	categories.POST("", categoryH.Create)
	categories.GET("", categoryH.List)
	categories.GET("/:id", categoryH.GetByID)
	categories.PUT("/:id", categoryH.Rename)
	categories.DELETE("/:id", categoryH.Delete)

	tasks := protected.Group("/tasks")
	tasks.POST("", taskH.Create)
	tasks.GET("", taskH.List)
	tasks.GET("/:id", taskH.GetByID)
	tasks.PUT("/:id", taskH.Update)
	tasks.DELETE("/:id", taskH.Delete)
	tasks.POST("/:id/comments", taskH.AddComment)
	tasks.GET("/:id/comments", taskH.ListComments)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
