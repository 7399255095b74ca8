package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/homecare/homecare-app/db"
	"github.com/homecare/homecare-app/models"
)

// clampPagination guards the page math against zero, negative or
// unparsed query values (a bad limit would divide by zero below).
func clampPagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

// GetAllProviders returns approved, unblocked service providers for
// client browsing, with optional service-type and location filters.
func GetAllProviders(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	page, limit = clampPagination(page, limit)
	offset := (page - 1) * limit

	query := db.DB.Preload("Role").Preload("Profile").
		Joins("JOIN roles ON users.role_id = roles.id").
		Where("roles.name = ?", models.RoleProvider).
		Where("users.approved = ? AND users.blocked = ?", true, false)

	if serviceType := c.Query("service_type"); serviceType != "" {
		query = query.
			Joins("JOIN provider_profiles ON provider_profiles.provider_id = users.id").
			Where("provider_profiles.service_type = ?", serviceType)
	}

	var providers []models.User
	if err := query.Limit(limit).Offset(offset).Find(&providers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch providers",
		})
	}

	var count int64
	db.DB.Model(&models.User{}).
		Joins("JOIN roles ON users.role_id = roles.id").
		Where("roles.name = ?", models.RoleProvider).
		Where("users.approved = ? AND users.blocked = ?", true, false).
		Count(&count)

	for i := range providers {
		providers[i].Password = ""
		providers[i].OTP = ""
	}

	return c.JSON(fiber.Map{
		"providers": providers,
		"total":     count,
		"page":      page,
		"limit":     limit,
		"pages":     (int(count) + limit - 1) / limit,
	})
}

// GetProviderDetails returns one provider with profile, reviews and live
// presence.
func GetProviderDetails(c *fiber.Ctx) error {
	id := c.Params("id")

	var provider models.User
	if err := db.DB.Preload("Role").Preload("Profile").First(&provider, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider not found",
		})
	}
	if provider.RoleName() != models.RoleProvider {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User is not a service provider",
		})
	}

	var reviews []models.Review
	db.DB.Preload("Client").Where("provider_id = ?", provider.ID).
		Order("created_at desc").Limit(20).Find(&reviews)
	for i := range reviews {
		reviews[i].Client.Password = ""
		reviews[i].Client.OTP = ""
	}

	rec, err := Presence.Get(c.Context(), provider.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read presence",
		})
	}

	provider.Password = ""
	provider.OTP = ""

	return c.JSON(fiber.Map{
		"provider": provider,
		"reviews":  reviews,
		"presence": rec,
	})
}

// GetServices returns the bookable service catalog.
func GetServices(c *fiber.Ctx) error {
	var services []models.Service
	if err := db.DB.Preload("Provider").Find(&services).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch services",
		})
	}
	return c.JSON(services)
}

// CreateService adds a catalog entry for the authenticated provider.
func CreateService(c *fiber.Ctx) error {
	userID, _, ok := actor(c)
	if !ok {
		return nil
	}

	var service models.Service
	if err := c.BodyParser(&service); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if service.Name == "" || service.Price <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name and a positive price are required",
		})
	}
	service.ProviderID = userID

	if err := db.DB.Create(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create service",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(service)
}

// DeleteService removes one of the provider's own catalog entries.
func DeleteService(c *fiber.Ctx) error {
	userID, role, ok := actor(c)
	if !ok {
		return nil
	}

	var service models.Service
	if err := db.DB.First(&service, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Service not found",
		})
	}
	if role != models.RoleAdmin && service.ProviderID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only delete your own services",
		})
	}

	if err := db.DB.Delete(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete service",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
