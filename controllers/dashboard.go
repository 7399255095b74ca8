package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/homecare/homecare-app/db"
	"github.com/homecare/homecare-app/models"
	"github.com/homecare/homecare-app/utils"
)

// Time-window filter values accepted by the dashboards.
const (
	WindowWeek  = "7d"
	WindowMonth = "30d"
	WindowAll   = "all"
)

// GetDashboardOverview composes the caller's live view: identity with
// presence, booking statistics, and the global unread badge.
func GetDashboardOverview(c *fiber.Ctx) error {
	userID, role, ok := actor(c)
	if !ok {
		return nil
	}

	query := db.DB.Model(&models.Booking{})
	switch role {
	case models.RoleProvider:
		query = query.Where("provider_id = ?", userID)
	case models.RoleAdmin:
		// admin sees all data
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
	stats := models.Aggregate(bookings)

	unread, err := models.UnreadTotal(db.DB, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to compute unread count",
			Error:   err.Error(),
		})
	}

	rec, err := Presence.Get(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to read presence",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"role":         role,
		"presence":     rec,
		"statistics":   stats,
		"unread":       unread,
		"last_updated": time.Now().UTC(),
	})
}

// GetDashboardBookings returns the caller's role-scoped booking list with
// the combined search/status/window filters applied.
func GetDashboardBookings(c *fiber.Ctx) error {
	userID, role, ok := actor(c)
	if !ok {
		return nil
	}

	query := db.DB.Preload("Client").Preload("Provider").Order("created_at desc")
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

	filtered := FilterBookings(bookings,
		c.Query("q"),
		c.Query("status", "all"),
		c.Query("window", WindowAll),
		time.Now(),
	)
	return c.JSON(filtered)
}

// GetPresenceList returns live presence for every known user (dashboards
// poll this once, then follow the websocket feed).
func GetPresenceList(c *fiber.Ctx) error {
	records, err := Presence.All(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to read presence",
			Error:   err.Error(),
		})
	}
	return c.JSON(records)
}

// GetUserPresence returns one user's presence record.
func GetUserPresence(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}
	rec, err := Presence.Get(c.Context(), uint(id))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to read presence",
			Error:   err.Error(),
		})
	}
	return c.JSON(rec)
}

// matchesSearch is a case-insensitive substring match over the given
// fields; an empty query matches everything.
func matchesSearch(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// withinWindow checks createdAt against a relative time window.
func withinWindow(createdAt time.Time, window string, now time.Time) bool {
	switch window {
	case WindowWeek:
		return !createdAt.Before(now.AddDate(0, 0, -7))
	case WindowMonth:
		return !createdAt.Before(now.AddDate(0, 0, -30))
	default:
		return true
	}
}

// FilterUsers applies search, exact role and time-window filters, all
// ANDed together.
func FilterUsers(users []models.User, q, role, window string, now time.Time) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if role != "" && role != "all" && u.RoleName() != models.NormalizeRole(role) {
			continue
		}
		if !matchesSearch(q, u.Name, u.Email, strconv.FormatUint(uint64(u.ID), 10)) {
			continue
		}
		if !withinWindow(u.CreatedAt, window, now) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// FilterBookings applies search, exact status and time-window filters,
// all ANDed together. Unknown stored statuses display as Pending.
func FilterBookings(bookings []models.Booking, q, status, window string, now time.Time) []models.Booking {
	out := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		display, _ := models.NormalizeStatus(string(b.Status))
		b.Status = display
		if status != "" && status != "all" && display != models.BookingStatus(status) {
			continue
		}
		if !matchesSearch(q,
			b.ServiceType,
			b.Location,
			b.Client.Name,
			b.Client.Email,
			b.Provider.Name,
			b.Provider.Email,
			strconv.FormatUint(uint64(b.ID), 10),
		) {
			continue
		}
		if !withinWindow(b.CreatedAt, window, now) {
			continue
		}
		out = append(out, b)
	}
	return out
}
