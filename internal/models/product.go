package models

import "time"

// Product represents a catalog item. Every product belongs to exactly one
// owner, set at creation and never reassigned. Deletes are permanent, so
// there is no soft-delete column here.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	Description string    `json:"description" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Price       float64   `json:"price" validate:"gte=0"`
	Image       string    `json:"image" gorm:"type:varchar(2048)" validate:"required"`
	OwnerID     string    `json:"owner_id" gorm:"index;type:varchar(36)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductWithOwner is a product annotated with its owner summary, the shape
// returned by catalog reads.
type ProductWithOwner struct {
	Product
	Owner OwnerSummary `json:"owner"`
}
