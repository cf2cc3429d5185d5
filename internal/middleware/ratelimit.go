package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// The credential endpoints are the only brute-forceable surface: login guesses
// passwords, register squats usernames. Heartbeats and chat polls arrive every
// few seconds per viewer by design and are never limited.
const (
	loginAttemptsPerMinute    = 10
	registerAttemptsPerMinute = 5
)

func LoginRateLimit() fiber.Handler {
	return perIP(loginAttemptsPerMinute)
}

func RegisterRateLimit() fiber.Handler {
	return perIP(registerAttemptsPerMinute)
}

// perIP keys on the client address rather than the username, so a lockout
// cannot be used to deny service to someone else's account.
func perIP(maxPerMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        maxPerMinute,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{"error": "rate_limited"})
		},
	})
}
