package models

import (
	"time"

	"gorm.io/gorm"
)

// Canonical role names. Every role read from the outside world goes
// through NormalizeRole exactly once, at the data-access boundary.
const (
	RoleClient   = "client"
	RoleProvider = "service-provider"
	RoleAdmin    = "admin"
	RoleUnknown  = "unknown"
)

type Role struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"unique"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// NormalizeRole maps arbitrary stored role strings to one of the
// canonical roles. Legacy records used "service_provider" and "provider"
// interchangeably.
func NormalizeRole(name string) string {
	switch name {
	case RoleClient:
		return RoleClient
	case RoleProvider, "service_provider", "provider":
		return RoleProvider
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUnknown
	}
}
