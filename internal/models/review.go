package models

import "time"

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ShopID uint `gorm:"index;not null" json:"shop_id"`

	BookingID uint    `gorm:"uniqueIndex;not null" json:"booking_id"`
	Booking   Booking `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	CustomerID uint `gorm:"index;not null" json:"customer_id"`

	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"size:500" json:"comment"`

	// JSON-encoded tag list ("clean", "fast", ...).
	Tags string `gorm:"type:text" json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
