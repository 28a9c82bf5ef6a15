package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"golang.org/x/crypto/bcrypt"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort      string        `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL   string        `env:"DATABASE_URL,required"`
	MigrationsDir string        `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	JWTSecret     string        `env:"JWT_SECRET,required"`
	JWTTTL        time.Duration `env:"JWT_TTL" envDefault:"24h"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"10"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno y la valida.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rechaza valores inseguros en el arranque en lugar de aceptarlos.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("config: JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.BcryptCost < 10 || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("config: BCRYPT_COST must be between 10 and %d, got %d", bcrypt.MaxCost, c.BcryptCost)
	}
	return nil
}
