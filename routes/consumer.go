package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/homecare/homecare-app/controllers"
	"github.com/homecare/homecare-app/middleware"
)

// SetupConsumerRoutes configures the client-facing browsing routes
func SetupConsumerRoutes(app *fiber.App) {
	consumer := app.Group("/consumer")
	consumer.Get("/providers", controllers.GetAllProviders)
	consumer.Get("/providers/:id", controllers.GetProviderDetails)
	consumer.Get("/services", controllers.GetServices)

	service := app.Group("/services", middleware.Protected(), middleware.RequireRole("service-provider", "admin"))
	service.Post("/", controllers.CreateService)
	service.Delete("/:id", controllers.DeleteService)
}
