package FiberConfig

import (
	"fmt"
	"log"

	"Relay/Controllers"
	"Relay/Dispatch"
	"Relay/middleware"
	"Relay/utils"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func SetupRoutes(app *fiber.App, apiKey string, dispatcher *Dispatch.Dispatcher) {
	// Initialize handlers
	emailController := Controllers.NewEmailController(dispatcher)

	app.Get("/health", Controllers.Health)

	// Versioned API group, bearer-token protected
	v1 := app.Group("/v1", middleware.Verify(apiKey))
	v1.Post("/send", emailController.SendEmail)
}

func FiberConfig(apiKey string, dispatcher *Dispatch.Dispatcher) {
	fmt.Println("Server Up...")
	app := fiber.New(fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression, // 2
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		MaxAge:       300, // Max age for preflight requests caching (5 minutes)
	}))

	SetupRoutes(app, apiKey, dispatcher)

	log.Fatal(app.Listen(":" + utils.GetEnv("PORT", "8000")))
}
