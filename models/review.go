package models

import (
	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	Rating     float64 `json:"rating" gorm:"type:decimal(2,1);not null"`
	Comment    string  `json:"comment"`
	ProviderID uint    `json:"provider_id"`
	Provider   User    `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	ClientID   uint    `json:"client_id"`
	Client     User    `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	BookingID  *uint   `json:"booking_id"`
}

// BeforeCreate clamps the rating into the 1..5 band.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.Rating < 1.0 {
		r.Rating = 1.0
	} else if r.Rating > 5.0 {
		r.Rating = 5.0
	}
	return nil
}

// HasExistingReview checks whether the client already reviewed this booking.
func (r *Review) HasExistingReview(tx *gorm.DB) (bool, error) {
	var count int64
	err := tx.Model(&Review{}).
		Where("client_id = ? AND provider_id = ? AND booking_id = ? AND deleted_at IS NULL",
			r.ClientID, r.ProviderID, r.BookingID).
		Count(&count).Error
	return count > 0, err
}
