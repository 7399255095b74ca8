package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/homecare/homecare-app/controllers"
	"github.com/homecare/homecare-app/middleware"
)

// SetupDashboardRoutes configures the per-role dashboard views
func SetupDashboardRoutes(app *fiber.App) {
	dashboard := app.Group("/dashboard", middleware.Protected())
	dashboard.Get("/overview", controllers.GetDashboardOverview)
	dashboard.Get("/bookings", controllers.GetDashboardBookings)
	dashboard.Get("/presence", controllers.GetPresenceList)
	dashboard.Get("/presence/:id", controllers.GetUserPresence)
}
