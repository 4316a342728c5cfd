package models

import (
	"time"
)

// Tag is a label attached to posts. UsageCount is denormalized but never
// trusted incrementally: it is recomputed from live PostTag rows after every
// assignment mutation.
type Tag struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"uniqueIndex;not null" json:"name"`
	UsageCount int       `gorm:"not null;default:0" json:"usage_count"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// PostTag is the join row between posts and tags, unique per (post, tag).
type PostTag struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	PostID uint `gorm:"not null;uniqueIndex:idx_post_tag" json:"post_id"`
	TagID  uint `gorm:"not null;uniqueIndex:idx_post_tag" json:"tag_id"`
}

// RankedTag is a tag row with its 1-indexed position on the usage leaderboard.
type RankedTag struct {
	TagID      uint   `json:"tag_id"`
	Name       string `json:"name"`
	UsageCount int    `json:"usage_count"`
	Rank       int    `json:"rank"`
}
