package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/homecare/homecare-app/controllers"
	"github.com/homecare/homecare-app/middleware"
)

// SetupAdminRoutes configures the moderation surface
func SetupAdminRoutes(app *fiber.App) {
	admin := app.Group("/admin", middleware.Protected(), middleware.RequireRole("admin"))
	admin.Get("/users", controllers.ListUsers)
	admin.Patch("/users/:id/blocked", controllers.SetUserBlocked)
	admin.Patch("/users/:id/approve", controllers.ApproveProvider)
	admin.Delete("/users/:id", controllers.DeleteUser)
}
