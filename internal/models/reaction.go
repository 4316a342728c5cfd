package models

import (
	"time"
)

// Reaction kinds
const (
	ReactionKindLike    = "like"
	ReactionKindDislike = "dislike"
)

// ReactionEntry records a user's like or dislike on a post or a comment.
// Exactly one of PostID/CommentID is set. Two composite unique indexes
// guarantee at most one entry per user and target: NULLs compare distinct in
// both Postgres and SQLite, so a single three-column index would not hold.
// A kind change is remove-then-recreate, never an in-place update.
type ReactionEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reaction_user_post;uniqueIndex:idx_reaction_user_comment" json:"user_id"`
	PostID    *uint     `gorm:"uniqueIndex:idx_reaction_user_post" json:"post_id,omitempty"`
	CommentID *uint     `gorm:"uniqueIndex:idx_reaction_user_comment" json:"comment_id,omitempty"`
	Kind      string    `gorm:"not null" json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// TargetKind identifies what a reaction, report, or review points at.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// ReactionTarget is a tagged reference to a post or a comment, so the
// one-of-post-or-comment invariant is carried by the type instead of a pair
// of nullable fields.
type ReactionTarget struct {
	Kind TargetKind
	ID   uint
}

// PostTarget returns a target referencing a post.
func PostTarget(id uint) ReactionTarget {
	return ReactionTarget{Kind: TargetPost, ID: id}
}

// CommentTarget returns a target referencing a comment.
func CommentTarget(id uint) ReactionTarget {
	return ReactionTarget{Kind: TargetComment, ID: id}
}
