package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Checkout simulates a payment capture and creates the booking in
// Pending with paid=true. There is no real gateway behind this endpoint;
// a failed "capture" leaves no booking behind.
func Checkout(c *fiber.Ctx) error {
	userID, _, ok := actor(c)
	if !ok {
		return nil
	}

	type CheckoutInput struct {
		ProviderID  uint    `json:"provider_id"`
		ServiceType string  `json:"service_type"`
		Location    string  `json:"location"`
		Amount      float64 `json:"amount"`
	}
	input := new(CheckoutInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.ProviderID == 0 || input.ServiceType == "" || input.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "provider_id, service_type and a positive amount are required",
		})
	}

	booking, status, err := createBooking(userID, input.ProviderID, input.ServiceType, input.Location, input.Amount, true)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment_id": "mock_" + uuid.NewString(),
		"booking":    booking,
	})
}
