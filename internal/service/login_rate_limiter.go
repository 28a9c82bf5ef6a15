package service

import (
	"sync"
	"time"
)

const (
	loginWindow      = 10 * time.Minute
	loginMaxAttempts = 10
)

// LoginRateLimiter limita la frecuencia de intentos de login por clave.
type LoginRateLimiter interface {
	Allow(key string) bool
}

type loginRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
}

// NewLoginRateLimiter crea un rate limiter en memoria de ventana deslizante.
func NewLoginRateLimiter(window time.Duration, max int) LoginRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &loginRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
	}
}

func (l *loginRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UTC()
	cutoff := now.Add(-l.window)
	entries := l.hits[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	kept = append(kept, now)
	l.hits[key] = kept
	return true
}
