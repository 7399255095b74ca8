package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/homecare/homecare-app/db"
	"github.com/homecare/homecare-app/models"
	"github.com/homecare/homecare-app/utils"
)

// UpdateProfile edits the caller's basic account fields.
func UpdateProfile(c *fiber.Ctx) error {
	userID, _, ok := actor(c)
	if !ok {
		return nil
	}

	type ProfileInput struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	input := new(ProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	updates := map[string]interface{}{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Phone != "" {
		updates["phone"] = input.Phone
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Nothing to update",
		})
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update profile",
		})
	}
	return c.JSON(fiber.Map{"message": "Profile updated"})
}

// UpdateProviderProfile edits the provider-only fields.
func UpdateProviderProfile(c *fiber.Ctx) error {
	userID, _, ok := actor(c)
	if !ok {
		return nil
	}

	type ProviderInput struct {
		ServiceType string  `json:"service_type"`
		Location    string  `json:"location"`
		Price       float64 `json:"price"`
	}
	input := new(ProviderInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var profile models.ProviderProfile
	if err := db.DB.Where("provider_id = ?", userID).First(&profile).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}

	updates := map[string]interface{}{}
	if input.ServiceType != "" {
		updates["service_type"] = input.ServiceType
	}
	if input.Location != "" {
		updates["location"] = input.Location
	}
	if input.Price > 0 {
		updates["price"] = input.Price
	}
	if len(updates) > 0 {
		if err := db.DB.Model(&profile).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update provider profile",
			})
		}
	}
	return c.JSON(profile)
}

// UploadProfilePicture passes the image through to blob storage and
// stores the returned URL on the provider profile.
func UploadProfilePicture(c *fiber.Ctx) error {
	userID, _, ok := actor(c)
	if !ok {
		return nil
	}

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "picture file is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read upload",
		})
	}
	defer file.Close()

	url, err := utils.UploadToCloudinary(file, fmt.Sprintf("user_%d", userID), "profiles")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to upload picture",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Model(&models.ProviderProfile{}).
		Where("provider_id = ?", userID).
		Update("picture_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save picture URL",
		})
	}
	return c.JSON(fiber.Map{"url": url})
}
