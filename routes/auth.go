package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/homecare/homecare-app/controllers"
	"github.com/homecare/homecare-app/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	// Public routes
	auth.Post("/register", controllers.Register)
	auth.Post("/login", controllers.Login)
	auth.Post("/verify-email", controllers.VerifyEmail)
	auth.Post("/refresh", controllers.RefreshToken)

	// Protected routes
	auth.Get("/me", middleware.Protected(), controllers.GetUserProfile)
	auth.Post("/logout", middleware.Protected(), controllers.Logout)
	auth.Patch("/profile", middleware.Protected(), controllers.UpdateProfile)
	auth.Patch("/provider-profile", middleware.Protected(), middleware.RequireRole("service-provider"), controllers.UpdateProviderProfile)
	auth.Post("/profile-picture", middleware.Protected(), controllers.UploadProfilePicture)
}
