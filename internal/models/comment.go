package models

import (
	"time"
)

// Comment statuses. Soft deletion keeps the content in storage for
// moderation/audit; viewers get a placeholder instead.
const (
	CommentStatusActive  = "active"
	CommentStatusHidden  = "hidden"
	CommentStatusDeleted = "deleted"
)

// Comment represents a comment on a post. Threads are at most two levels
// deep: root comments and their direct replies.
type Comment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PostID          uint      `gorm:"not null;index" json:"post_id"`
	AuthorID        uint      `gorm:"not null" json:"author_id"`
	Author          User      `gorm:"foreignKey:AuthorID" json:"author"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	ParentCommentID *uint     `gorm:"index" json:"parent_comment_id,omitempty"`
	Status          string    `gorm:"not null;default:active;index" json:"status"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// Liked indicates whether the current requesting user liked this comment (computed)
	Liked     bool       `gorm:"->" json:"liked"`
	Replies   []*Comment `gorm:"-" json:"replies,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsRoot reports whether the comment is a top-level comment.
func (c *Comment) IsRoot() bool {
	return c.ParentCommentID == nil
}
