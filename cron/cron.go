package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/homecare/homecare-app/db"
	"github.com/homecare/homecare-app/models"
	"github.com/homecare/homecare-app/presence"
	"github.com/homecare/homecare-app/utils"
)

// StartCronJobs initializes the scheduler: a minutely sweep of stale
// presence sessions and an hourly nudge to providers sitting on pending
// bookings.
func StartCronJobs(tracker *presence.Tracker) {
	c := cron.New()

	_, err := c.AddFunc("* * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := tracker.SweepStale(ctx); err != nil {
			log.Printf("Stale presence sweep failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to add presence sweep job: %v", err)
	}

	_, err = c.AddFunc("0 * * * *", sendPendingBookingReminders)
	if err != nil {
		log.Fatalf("Failed to add booking reminder job: %v", err)
	}

	c.Start()
	log.Println("Cron job scheduler started")
}

// sendPendingBookingReminders nudges providers about bookings that have
// been waiting on them for over a day.
func sendPendingBookingReminders() {
	cutoff := time.Now().Add(-24 * time.Hour)

	var bookings []models.Booking
	err := db.DB.Preload("Client").Preload("Provider").
		Where("status = ? AND created_at < ?", models.StatusPending, cutoff).
		Find(&bookings).Error
	if err != nil {
		log.Printf("Error fetching pending bookings for reminders: %v", err)
		return
	}

	for _, booking := range bookings {
		if err := sendReminderEmail(&booking); err != nil {
			log.Printf("Failed to send reminder for booking %d: %v", booking.ID, err)
			continue
		}
		log.Printf("Sent pending reminder for booking %d to %s", booking.ID, booking.Provider.Email)
	}
}

func sendReminderEmail(booking *models.Booking) error {
	subject := fmt.Sprintf("Reminder: Pending Booking - %s", booking.ServiceType)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>The following booking is still waiting for your response.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Client:</strong> %s</li>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Location:</strong> %s</li>
			<li><strong>Amount:</strong> %.2f</li>
			<li><strong>Requested:</strong> %s</li>
		</ul>
		<p>Please approve or reject it from your dashboard.</p>
		<p>Best regards,</p>
		<p>The HomeCare Team</p>
	`, booking.Provider.Name, booking.Client.Name, booking.ServiceType,
		booking.Location, booking.Amount,
		booking.CreatedAt.Format("2006-01-02 15:04:05"))

	return utils.SendEmail(booking.Provider.Email, subject, body)
}
