package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/homecare/homecare-app/db"
	"github.com/homecare/homecare-app/models"
	"github.com/homecare/homecare-app/utils"
)

// GetBookings godoc
// @Summary List bookings visible to the caller
// @Description Clients see their own bookings, providers see bookings addressed to them, admins see all
// @Tags bookings
// @Produce json
// @Success 200 {array} models.Booking
// @Failure 500 {object} utils.ErrorResponse
// @Router /bookings [get]
func GetBookings(c *fiber.Ctx) error {
	userID, role, ok := actor(c)
	if !ok {
		return nil
	}

	query := db.DB.Preload("Client").Preload("Provider").Order("created_at desc")
	switch role {
	case models.RoleProvider:
		query = query.Where("provider_id = ?", userID)
	case models.RoleAdmin:
		// admins see everything
	default:
		query = query.Where("client_id = ?", userID)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch bookings",
			Error:   err.Error(),
		})
	}
	return c.JSON(bookings)
}

// GetBooking godoc
// @Summary Get a booking by ID
// @Tags bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} models.Booking
// @Failure 404 {object} utils.ErrorResponse
// @Router /bookings/{id} [get]
func GetBooking(c *fiber.Ctx) error {
	userID, role, ok := actor(c)
	if !ok {
		return nil
	}

	id := c.Params("id")
	var booking models.Booking
	if err := db.DB.Preload("Client").Preload("Provider").First(&booking, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Booking not found",
			Error:   err.Error(),
		})
	}

	if role != models.RoleAdmin && booking.ClientID != userID && booking.ProviderID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not a party to this booking",
		})
	}
	return c.JSON(booking)
}

// CreateBooking godoc
// @Summary Create a new booking
// @Description Inserts a booking in Pending status for the authenticated client
// @Tags bookings
// @Accept json
// @Produce json
// @Success 201 {object} models.Booking
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /bookings [post]
func CreateBooking(c *fiber.Ctx) error {
	userID, _, ok := actor(c)
	if !ok {
		return nil
	}

	type CreateInput struct {
		ProviderID  uint    `json:"provider_id"`
		ServiceType string  `json:"service_type"`
		Location    string  `json:"location"`
		Amount      float64 `json:"amount"`
		Paid        bool    `json:"paid"`
	}
	input := new(CreateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if input.ProviderID == 0 || input.ServiceType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "provider_id and service_type are required",
		})
	}

	booking, status, err := createBooking(userID, input.ProviderID, input.ServiceType, input.Location, input.Amount, input.Paid)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// TransitionBooking godoc
// @Summary Apply a lifecycle action to a booking
// @Description approve/reject/complete by the booking's provider, cancel/confirm by an admin
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} models.Booking
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /bookings/{id}/transition [patch]
func TransitionBooking(c *fiber.Ctx) error {
	userID, role, ok := actor(c)
	if !ok {
		return nil
	}

	type TransitionInput struct {
		Action          models.BookingAction `json:"action"`
		PaymentReleased bool                 `json:"payment_released"`
	}
	input := new(TransitionInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	var booking models.Booking
	if err := db.DB.First(&booking, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Booking not found",
			Error:   err.Error(),
		})
	}

	// Authorization before mutation: role gate first, then ownership.
	target, err := models.ResolveAction(input.Action, role)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if role == models.RoleProvider && booking.ProviderID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only act on your own bookings",
		})
	}

	if err := booking.UpdateStatus(db.DB, target, input.PaymentReleased); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(booking)
}

// GetBookingStats godoc
// @Summary Aggregate booking counts and earnings for the caller
// @Tags bookings
// @Produce json
// @Success 200 {object} models.BookingStats
// @Failure 500 {object} utils.ErrorResponse
// @Router /bookings/stats [get]
func GetBookingStats(c *fiber.Ctx) error {
	userID, role, ok := actor(c)
	if !ok {
		return nil
	}

	query := db.DB.Model(&models.Booking{})
	switch role {
	case models.RoleProvider:
		query = query.Where("provider_id = ?", userID)
	case models.RoleAdmin:
	default:
		query = query.Where("client_id = ?", userID)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch bookings",
			Error:   err.Error(),
		})
	}
	return c.JSON(models.Aggregate(bookings))
}

// createBooking enforces the booking-creation policy: the client must not
// be blocked, the provider must exist, be approved and not blocked.
func createBooking(clientID, providerID uint, serviceType, location string, amount float64, paid bool) (*models.Booking, int, error) {
	var client models.User
	if err := db.DB.First(&client, clientID).Error; err != nil {
		return nil, fiber.StatusUnauthorized, fiber.NewError(fiber.StatusUnauthorized, "client not found")
	}
	if client.Blocked {
		return nil, fiber.StatusForbidden, fiber.NewError(fiber.StatusForbidden, "account is blocked")
	}

	var provider models.User
	if err := db.DB.Preload("Role").First(&provider, providerID).Error; err != nil {
		return nil, fiber.StatusNotFound, fiber.NewError(fiber.StatusNotFound, "provider not found")
	}
	if provider.RoleName() != models.RoleProvider {
		return nil, fiber.StatusBadRequest, fiber.NewError(fiber.StatusBadRequest, "user is not a service provider")
	}
	if provider.Blocked || !provider.Approved {
		return nil, fiber.StatusForbidden, fiber.NewError(fiber.StatusForbidden, "provider is not accepting bookings")
	}

	booking := models.Booking{
		ClientID:    clientID,
		ProviderID:  providerID,
		ServiceType: serviceType,
		Location:    location,
		Amount:      amount,
		Status:      models.StatusPending,
		Paid:        paid,
	}
	if err := db.DB.Create(&booking).Error; err != nil {
		return nil, fiber.StatusInternalServerError, fiber.NewError(fiber.StatusInternalServerError, "failed to create booking")
	}
	return &booking, fiber.StatusCreated, nil
}

// actor pulls the authenticated identity out of Locals. When it returns
// false the 401 response has already been written.
func actor(c *fiber.Ctx) (uint, string, bool) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
		return 0, "", false
	}
	role, ok := c.Locals("role").(string)
	if !ok {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User role not found in context",
		})
		return 0, "", false
	}
	return userID, role, true
}
