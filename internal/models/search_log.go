package models

import (
	"time"
)

// SearchLog records a search query for the popular-queries board. Writes are
// fire-and-forget: a failed insert must never fail the search itself.
type SearchLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	Query     string    `gorm:"not null;index" json:"query"`
	Results   int       `gorm:"not null;default:0" json:"results"`
	CreatedAt time.Time `json:"created_at"`
}

// PopularQuery is an aggregate row for the admin search dashboard.
type PopularQuery struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}
