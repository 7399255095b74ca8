package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/homecare/homecare-app/controllers"
	"github.com/homecare/homecare-app/middleware"
)

// SetupBookingRoutes configures all booking related routes
func SetupBookingRoutes(app *fiber.App) {
	booking := app.Group("/bookings", middleware.Protected())
	booking.Get("/", controllers.GetBookings)
	booking.Get("/stats", controllers.GetBookingStats)
	booking.Get("/:id", controllers.GetBooking)
	booking.Post("/", middleware.RequireRole("client"), controllers.CreateBooking)
	booking.Patch("/:id/transition", middleware.RequireRole("service-provider", "admin"), controllers.TransitionBooking)

	payment := app.Group("/payments", middleware.Protected())
	payment.Post("/checkout", middleware.RequireRole("client"), controllers.Checkout)

	review := app.Group("/reviews", middleware.Protected())
	review.Post("/", middleware.RequireRole("client"), controllers.CreateReview)
	review.Get("/provider/:id", controllers.GetProviderReviews)
}
