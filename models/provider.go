package models

import (
	"gorm.io/gorm"
)

// ProviderProfile holds the service-provider subset of a user account.
// Editable by the provider and by admins.
type ProviderProfile struct {
	gorm.Model
	ProviderID  uint    `json:"provider_id" gorm:"uniqueIndex"`
	ServiceType string  `json:"service_type"`
	Location    string  `json:"location"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating" gorm:"type:decimal(2,1);default:0"`
	RatingCount int64   `json:"rating_count"`
	License     string  `json:"license"`
	PictureURL  string  `json:"picture_url"`
}

// ApplyRating folds a new review score into the running average.
func (p *ProviderProfile) ApplyRating(score float64) {
	total := p.Rating*float64(p.RatingCount) + score
	p.RatingCount++
	p.Rating = total / float64(p.RatingCount)
}
