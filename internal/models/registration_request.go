package models

import "time"

const (
	RegistrationPending  = "pending"
	RegistrationApproved = "approved"
	RegistrationRejected = "rejected"
)

// RegistrationRequest is an unauthenticated submission awaiting manual
// approval. It is not linked to any identity; the Token lets the
// submitter check status without logging in.
type RegistrationRequest struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Token string `gorm:"size:36;uniqueIndex;not null" json:"token"`

	ShopName  string `gorm:"size:100;not null" json:"shop_name"`
	OwnerName string `gorm:"size:100;not null" json:"owner_name"`
	Phone     string `gorm:"size:20" json:"phone"`
	Address   string `gorm:"size:255" json:"address"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
