package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/homecare/homecare-app/db"
	"github.com/homecare/homecare-app/models"
)

// CreateReview lets a client rate a provider after a completed booking.
// One review per booking; the provider's running average updates in the
// same transaction.
func CreateReview(c *fiber.Ctx) error {
	userID, _, ok := actor(c)
	if !ok {
		return nil
	}

	type ReviewInput struct {
		BookingID uint    `json:"booking_id"`
		Rating    float64 `json:"rating"`
		Comment   string  `json:"comment"`
	}
	input := new(ReviewInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var booking models.Booking
	if err := db.DB.First(&booking, input.BookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found",
		})
	}
	if booking.ClientID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only review your own bookings",
		})
	}
	if booking.Status != models.StatusCompleted {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Only completed bookings can be reviewed",
		})
	}

	review := models.Review{
		Rating:     input.Rating,
		Comment:    input.Comment,
		ProviderID: booking.ProviderID,
		ClientID:   userID,
		BookingID:  &booking.ID,
	}
	exists, err := review.HasExistingReview(db.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to check existing reviews",
		})
	}
	if exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You have already reviewed this booking",
		})
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		var profile models.ProviderProfile
		if err := tx.Where("provider_id = ?", booking.ProviderID).First(&profile).Error; err != nil {
			return err
		}
		profile.ApplyRating(review.Rating)
		return tx.Save(&profile).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save review",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// GetProviderReviews lists a provider's reviews newest-first.
func GetProviderReviews(c *fiber.Ctx) error {
	var reviews []models.Review
	if err := db.DB.Preload("Client").
		Where("provider_id = ?", c.Params("id")).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch reviews",
		})
	}
	for i := range reviews {
		reviews[i].Client.Password = ""
		reviews[i].Client.OTP = ""
	}
	return c.JSON(reviews)
}
