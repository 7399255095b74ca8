package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/homecare/homecare-app/db"
	"github.com/homecare/homecare-app/models"
)

// RequireRole checks the user's live role against the database rather
// than trusting the token, so a demoted or deleted account loses access
// immediately. Blocked accounts are rejected on every guarded route.
func RequireRole(roleNames ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userID").(uint)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User ID not found in context",
			})
		}

		var dbUser models.User
		if err := db.DB.Preload("Role").First(&dbUser, userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		if dbUser.Blocked {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Account is blocked",
			})
		}

		role := dbUser.RoleName()
		for _, name := range roleNames {
			if role == name {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have the required role to perform this action",
		})
	}
}
