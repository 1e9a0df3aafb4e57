package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", Verify("secret"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestVerify(t *testing.T) {
	app := authTestApp()

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong key", "Bearer nope", fiber.StatusUnauthorized},
		{"valid bearer", "Bearer secret", fiber.StatusOK},
		{"valid without prefix", "secret", fiber.StatusOK},
		{"key with trailing garbage", "Bearer secretx", fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
