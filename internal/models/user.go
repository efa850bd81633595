package models

import "time"

// User represents a registered store owner.
type User struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username         string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email            string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password         string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	StoreName        string    `json:"store_name" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	StoreDescription string    `json:"store_description" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// OwnerSummary is the denormalized owner info attached to product reads.
type OwnerSummary struct {
	Username  string `json:"username"`
	StoreName string `json:"store_name"`
}

// Summary returns the public owner fields of a user.
func (u *User) Summary() OwnerSummary {
	return OwnerSummary{Username: u.Username, StoreName: u.StoreName}
}

// StoreInfo is the public-facing identity of a user's store. It never carries
// the email or the password hash.
type StoreInfo struct {
	Username         string `json:"username"`
	StoreName        string `json:"store_name"`
	StoreDescription string `json:"store_description"`
}
