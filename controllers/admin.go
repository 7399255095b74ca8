package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/homecare/homecare-app/db"
	"github.com/homecare/homecare-app/models"
	"github.com/homecare/homecare-app/utils"
)

// ListUsers returns every account with the admin search filters applied
// (free-text query + exact role + time window, ANDed).
func ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := db.DB.Preload("Role").Preload("Profile").Order("created_at desc").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch users",
			Error:   err.Error(),
		})
	}

	filtered := FilterUsers(users,
		c.Query("q"),
		c.Query("role", "all"),
		c.Query("window", WindowAll),
		time.Now(),
	)
	for i := range filtered {
		filtered[i].Password = ""
		filtered[i].OTP = ""
	}
	return c.JSON(filtered)
}

// SetUserBlocked blocks or unblocks an account. Blocking freezes new
// bookings and new chat sends; existing history stays readable.
func SetUserBlocked(c *fiber.Ctx) error {
	type BlockInput struct {
		Blocked bool `json:"blocked"`
	}
	input := new(BlockInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var user models.User
	if err := db.DB.Preload("Role").First(&user, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	if user.RoleName() == models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Admin accounts cannot be blocked",
		})
	}

	if err := db.DB.Model(&user).Update("blocked", input.Blocked).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update user",
		})
	}
	return c.JSON(fiber.Map{"id": user.ID, "blocked": input.Blocked})
}

// ApproveProvider flips a provider account to approved so it can start
// receiving bookings.
func ApproveProvider(c *fiber.Ctx) error {
	var user models.User
	if err := db.DB.Preload("Role").First(&user, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	if user.RoleName() != models.RoleProvider {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User is not a service provider",
		})
	}

	if err := db.DB.Model(&user).Update("approved", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to approve provider",
		})
	}
	return c.JSON(fiber.Map{"id": user.ID, "approved": true})
}

// DeleteUser removes an account. Historical bookings and chats keep
// their rows; only the user record goes away.
func DeleteUser(c *fiber.Ctx) error {
	var user models.User
	if err := db.DB.Preload("Role").First(&user, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	if user.RoleName() == models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Admin accounts cannot be deleted",
		})
	}

	if err := db.DB.Delete(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete user",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
