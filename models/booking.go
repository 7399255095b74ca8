package models

import (
	"fmt"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusApproved  BookingStatus = "Approved"
	StatusRejected  BookingStatus = "Rejected"
	StatusCompleted BookingStatus = "Completed"
	StatusCancelled BookingStatus = "Cancelled"
)

// BookingAction is a requested lifecycle step, validated against the
// actor's role and the booking's current status before anything is saved.
type BookingAction string

const (
	ActionApprove  BookingAction = "approve"
	ActionReject   BookingAction = "reject"
	ActionComplete BookingAction = "complete"
	ActionCancel   BookingAction = "cancel"
	ActionConfirm  BookingAction = "confirm"
)

type Booking struct {
	gorm.Model
	ClientID        uint          `json:"client_id"`
	Client          User          `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	ProviderID      uint          `json:"provider_id"`
	Provider        User          `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	ServiceType     string        `json:"service_type"`
	Location        string        `json:"location"`
	Amount          float64       `json:"amount"`
	Status          BookingStatus `json:"status"`
	Paid            bool          `json:"paid"`
	PaymentReleased bool          `json:"payment_released"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = StatusPending
	}
	return nil
}

// NormalizeStatus maps a stored status to its canonical form. Unknown or
// missing values display as Pending, but DisplayStatus output is never a
// valid transition source: CanTransition checks the raw value.
func NormalizeStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled:
		return BookingStatus(s), true
	default:
		return StatusPending, false
	}
}

// Terminal reports whether no further transition is permitted.
func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusCancelled
}

// CanTransition validates a single step along the status graph:
// Pending -> {Approved, Rejected}, Approved -> Completed, and the
// admin-only Pending|Approved -> Cancelled. Terminal states are frozen.
func CanTransition(from, to BookingStatus) error {
	switch from {
	case StatusPending:
		if to != StatusApproved && to != StatusRejected && to != StatusCancelled {
			return fmt.Errorf("invalid transition from %s to %s", from, to)
		}
	case StatusApproved:
		if to != StatusCompleted && to != StatusCancelled {
			return fmt.Errorf("invalid transition from %s to %s", from, to)
		}
	case StatusCompleted, StatusRejected, StatusCancelled:
		return fmt.Errorf("no transitions allowed from %s", from)
	default:
		return fmt.Errorf("unknown status %q is not a valid transition source", from)
	}
	return nil
}

// ResolveAction maps an action to its target status after checking the
// actor's role: providers approve, reject and complete their own bookings;
// cancel and force-confirm are admin operations.
func ResolveAction(action BookingAction, role string) (BookingStatus, error) {
	switch action {
	case ActionApprove, ActionReject, ActionComplete:
		if role != RoleProvider {
			return "", fmt.Errorf("action %s requires the provider role", action)
		}
	case ActionCancel, ActionConfirm:
		if role != RoleAdmin {
			return "", fmt.Errorf("action %s requires the admin role", action)
		}
	default:
		return "", fmt.Errorf("unknown action %q", action)
	}

	switch action {
	case ActionApprove, ActionConfirm:
		return StatusApproved, nil
	case ActionReject:
		return StatusRejected, nil
	case ActionComplete:
		return StatusCompleted, nil
	default:
		return StatusCancelled, nil
	}
}

// UpdateStatus applies a validated transition and persists it. The status
// field is only written after both the role and the state graph allow the
// step, so an invalid request leaves the row untouched.
func (b *Booking) UpdateStatus(tx *gorm.DB, to BookingStatus, paymentReleased bool) error {
	if err := CanTransition(b.Status, to); err != nil {
		return err
	}
	b.Status = to
	if to == StatusCompleted && paymentReleased {
		b.PaymentReleased = true
	}
	return tx.Save(b).Error
}

// BookingStats is the aggregate view a dashboard renders.
type BookingStats struct {
	Total     int64   `json:"total"`
	Pending   int64   `json:"pending"`
	Approved  int64   `json:"approved"`
	Completed int64   `json:"completed"`
	Rejected  int64   `json:"rejected"`
	Cancelled int64   `json:"cancelled"`
	Earnings  float64 `json:"earnings"`
}

// Aggregate folds a booking snapshot into per-status counts and earnings.
// Earnings only count bookings that are Completed and have had payment
// released; a completed-but-unpaid booking contributes zero.
func Aggregate(bookings []Booking) BookingStats {
	var stats BookingStats
	for _, b := range bookings {
		stats.Total++
		status, _ := NormalizeStatus(string(b.Status))
		switch status {
		case StatusPending:
			stats.Pending++
		case StatusApproved:
			stats.Approved++
		case StatusCompleted:
			stats.Completed++
		case StatusRejected:
			stats.Rejected++
		case StatusCancelled:
			stats.Cancelled++
		}
		if status == StatusCompleted && b.PaymentReleased {
			stats.Earnings += b.Amount
		}
	}
	return stats
}
