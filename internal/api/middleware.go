package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// requireAuth guards the admin surface: a missing or invalid bearer token
// is rejected before any handler runs.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing token"})
	}

	claims, err := s.auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	c.Locals("admin", claims)
	return c.Next()
}

// loginLimiter throttles credential attempts per client IP.
type loginLimiter struct {
	mu       sync.Mutex
	visitors map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newLoginLimiter(attempts int, window time.Duration) *loginLimiter {
	if attempts < 1 {
		attempts = 1
	}
	return &loginLimiter{
		visitors: make(map[string]*rate.Limiter),
		rate:     rate.Every(window / time.Duration(attempts)),
		burst:    attempts,
	}
}

func (l *loginLimiter) allow(ip string) bool {
	l.mu.Lock()
	limiter, ok := l.visitors[ip]
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.visitors[ip] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}
