package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// skipPaths are not worth a log line per hit
var skipPaths = []string{"/health", "/metrics"}

// RequestLogger logs method, path, status, latency and client IP for every
// handled request
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, skipPath := range skipPaths {
			if c.Path() == skipPath {
				return c.Next()
			}
		}

		start := time.Now()

		err := c.Next()

		latency := time.Since(start)

		log.Printf(
			"[%s] %s %s %d %s %s",
			start.Format("2006-01-02 15:04:05"),
			c.Method(),
			c.Path(),
			c.Response().StatusCode(),
			latency,
			c.IP(),
		)

		return err
	}
}
