package middleware

import (
	"fmt"
	"sync"
	"time"

	"llmtracer/backend/internal/infrastructure/config"
	"llmtracer/backend/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// RateLimiter is an in-process sliding-window limiter keyed by client IP.
// It runs ahead of authentication, so it has no notion of project id yet;
// see config.RateLimitConfig for the window.
type RateLimiter struct {
	requestsPerWindow int
	window            time.Duration

	mu       sync.Mutex
	requests map[string][]time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	rpw := cfg.RequestsPerWindow
	if rpw <= 0 {
		rpw = 60
	}
	windowSeconds := cfg.WindowSeconds
	if windowSeconds <= 0 {
		windowSeconds = 60
	}

	return &RateLimiter{
		requestsPerWindow: rpw,
		window:            time.Duration(windowSeconds) * time.Second,
		requests:          make(map[string][]time.Time),
	}
}

func (r *RateLimiter) Handle() fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientIP := c.IP()
		now := time.Now()

		r.mu.Lock()
		kept := r.requests[clientIP][:0]
		for _, reqTime := range r.requests[clientIP] {
			if now.Sub(reqTime) < r.window {
				kept = append(kept, reqTime)
			}
		}

		if len(kept) >= r.requestsPerWindow {
			r.requests[clientIP] = kept
			r.mu.Unlock()
			return apperror.New(
				apperror.CodeTooManyRequests,
				fmt.Sprintf("rate limit exceeded, max %d requests per %s", r.requestsPerWindow, r.window),
				apperror.KindPersistance,
			)
		}

		r.requests[clientIP] = append(kept, now)
		r.mu.Unlock()

		return c.Next()
	}
}
