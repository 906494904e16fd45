package models

import (
	"time"

	"gorm.io/gorm"
)

type Shop struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OwnerID uint `gorm:"index;not null" json:"owner_id"`
	Owner   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Slug    string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Services is a JSON-encoded list, WorkingHours a JSON-encoded
	// weekday map. Both are opaque to the backend.
	Services     string `gorm:"type:text" json:"services"`
	WorkingHours string `gorm:"type:text" json:"working_hours"`

	CapacityLimit int `gorm:"default:0" json:"capacity_limit"`
	AvgServiceMin int `gorm:"default:0" json:"avg_service_min"`

	// Cached aggregates, recomputed transactionally on every write
	// that affects them. Never authoritative inputs.
	RatingAvg    float64 `gorm:"default:0" json:"rating_avg"`
	ReviewCount  int     `gorm:"default:0" json:"review_count"`
	BookingCount int     `gorm:"default:0" json:"booking_count"`

	IsActive bool   `gorm:"default:true" json:"is_active"`
	Timezone string `gorm:"size:50" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Shop) BeforeUpdate(tx *gorm.DB) error {
	tx.Statement.SetColumn("updated_at", time.Now())
	return nil
}
