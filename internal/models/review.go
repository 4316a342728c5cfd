package models

import (
	"time"
)

// Review statuses
const (
	ReviewStatusActive  = "active"
	ReviewStatusDeleted = "deleted"
)

// Review target kinds
const (
	ReviewTargetHospital = "hospital"
	ReviewTargetProduct  = "product"
)

// Review is a rated writeup of a hospital or product. Soft deletion follows
// the same status-transition rule as comments: content stays in storage.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AuthorID   uint      `gorm:"not null;index" json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"author"`
	TargetKind string    `gorm:"not null;index:idx_review_target" json:"target_kind"`
	TargetID   uint      `gorm:"not null;index:idx_review_target" json:"target_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Content    string    `gorm:"type:text" json:"content"`
	Status     string    `gorm:"not null;default:active" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
