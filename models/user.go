package models

import (
	"time"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name"`
	Email        string    `json:"email" gorm:"unique"`
	Password     string    `json:"password,omitempty"`
	Phone        string    `json:"phone"`
	IsVerified   bool      `json:"is_verified"`
	OTP          string    `json:"otp,omitempty"`
	OTPExpiresAt time.Time `json:"otp_expires_at,omitempty"`
	Blocked      bool      `json:"blocked"`
	Approved     bool      `json:"approved"`
	RoleID       uint      `json:"role_id"`
	Role         Role      `json:"role,omitempty" gorm:"foreignKey:RoleID"`

	Profile          *ProviderProfile `json:"profile,omitempty" gorm:"foreignKey:ProviderID"`
	Bookings         []Booking        `json:"bookings,omitempty" gorm:"foreignKey:ProviderID"`
	ClientBookings   []Booking        `json:"client_bookings,omitempty" gorm:"foreignKey:ClientID"`
	ProvidedServices []Service        `json:"provided_services,omitempty" gorm:"foreignKey:ProviderID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleName returns the normalized role of the user.
func (u *User) RoleName() string {
	return NormalizeRole(u.Role.Name)
}
