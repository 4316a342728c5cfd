package models

import (
	"time"
)

// Hospital is a clinic listed in the treatment directory.
type Hospital struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;index" json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Specialty string    `json:"specialty"`
	// AverageRating is not persisted; computed at query time
	AverageRating float64 `gorm:"->" json:"average_rating"`
	// ReviewsCount is not persisted; computed at query time
	ReviewsCount int       `gorm:"->" json:"reviews_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Product is an item (shampoo, supplement, device) in the product directory.
type Product struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;index" json:"name"`
	Brand       string `json:"brand"`
	Description string `gorm:"type:text" json:"description"`
	// AverageRating is not persisted; computed at query time
	AverageRating float64 `gorm:"->" json:"average_rating"`
	// ReviewsCount is not persisted; computed at query time
	ReviewsCount int       `gorm:"->" json:"reviews_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
