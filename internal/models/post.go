package models

import (
	"time"
)

// Post statuses. Deletion is a status transition, never a row removal, so the
// history of reactions and comments stays intact for audit.
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
	PostStatusDeleted   = "deleted"
)

// Post represents a community post.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	AuthorID   uint      `gorm:"not null;index" json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"author"`
	CategoryID *uint     `gorm:"index" json:"category_id,omitempty"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Status     string    `gorm:"not null;default:published;index" json:"status"`
	ViewCount  int       `gorm:"not null;default:0" json:"view_count"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// DislikesCount is not persisted; computed at query time
	DislikesCount int `gorm:"->" json:"dislikes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool      `gorm:"->" json:"liked"`
	Tags      []Tag     `gorm:"many2many:post_tags" json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Visible reports whether the post may be shown to the given viewer.
// Anything other than published is author-only.
func (p *Post) Visible(viewerID uint) bool {
	return p.Status == PostStatusPublished || p.AuthorID == viewerID
}

// PostView records that a viewer has read a post. The unique index makes the
// view-count increment idempotent per (viewer, post).
type PostView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_view_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_view_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
