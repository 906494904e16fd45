package models

import "time"

// Favorite links a customer to a shop, unique per pair.
type Favorite struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex:idx_favorites_user_shop;not null" json:"user_id"`
	ShopID uint `gorm:"uniqueIndex:idx_favorites_user_shop;not null" json:"shop_id"`
	Shop   Shop `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"shop"`

	CreatedAt time.Time `json:"created_at"`
}
