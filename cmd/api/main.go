package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"taskdeck/internal/config"
	"taskdeck/internal/db"
	apihttp "taskdeck/internal/http"
	"taskdeck/internal/repository"
	"taskdeck/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := db.Migrate(ctx, cfg.DatabaseURL, cfg.MigrationsDir, logger); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	categoryRepo := repository.NewPgCategoryRepository(pool)
	taskRepo := repository.NewPgTaskRepository(pool)
	commentRepo := repository.NewPgCommentRepository(pool)

	var loginLimiter service.LoginRateLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, 10*time.Minute, 10)
		}
		cancel()
	}

	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	tokenSvc := service.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	authSvc := service.NewAuthService(logger, userRepo, hasher, tokenSvc, loginLimiter)
	userSvc := service.NewUserService(logger, userRepo, hasher)
	taskSvc := service.NewTaskService(logger, taskRepo, categoryRepo, userRepo, commentRepo)

	authHandler := apihttp.NewAuthHandler(logger, authSvc)
	userHandler := apihttp.NewUserHandler(logger, userSvc)
	categoryHandler := apihttp.NewCategoryHandler(logger, categoryRepo)
	taskHandler := apihttp.NewTaskHandler(logger, taskSvc)

	router := apihttp.NewRouter(logger, tokenSvc, authHandler, userHandler, categoryHandler, taskHandler, healthCheck(pool))

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

func healthCheck(pool *pgxpool.Pool) apihttp.HealthChecker {
	return func(ctx context.Context) error {
		return db.Ping(ctx, pool)
	}
}
