package middleware

import (
	"crypto/subtle"
	"log"
	"strings"

	"Relay/Models"

	"github.com/gofiber/fiber/v2"
)

// Verify checks the bearer token on each request against the configured API
// key. The comparison is constant-time so the key cannot be probed through
// response timing.
func Verify(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			log.Println("Missing Authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(Models.SendResponse{
				Success: false,
				Message: "Missing Authorization header",
			})
		}

		token := strings.TrimPrefix(authorization, "Bearer ")

		if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			log.Println("Invalid API key provided")
			return c.Status(fiber.StatusUnauthorized).JSON(Models.SendResponse{
				Success: false,
				Message: "Invalid API key",
			})
		}

		return c.Next()
	}
}
