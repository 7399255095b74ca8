package models

import (
	"gorm.io/gorm"
)

// Service is a catalog entry a client can book.
type Service struct {
	gorm.Model
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	ProviderID  uint    `json:"provider_id"`
	Provider    User    `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
}
