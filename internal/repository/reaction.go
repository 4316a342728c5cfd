// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"follicle/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines the interface for the shared like/dislike ledger.
type ReactionRepository interface {
	// Find returns the user's entry for the target, or nil when there is none.
	Find(ctx context.Context, userID uint, target models.ReactionTarget) (*models.ReactionEntry, error)
	// Insert writes a new entry. It reports false without error when the
	// uniqueness constraint swallowed the write (a concurrent toggle won).
	Insert(ctx context.Context, entry *models.ReactionEntry) (bool, error)
	// Delete removes an entry by primary key.
	Delete(ctx context.Context, entryID uint) error
	// Replace atomically swaps an existing entry for one of a different kind.
	Replace(ctx context.Context, old *models.ReactionEntry, entry *models.ReactionEntry) error
	// Count returns live entries of the given kind whose target has not been
	// soft-deleted or hidden.
	Count(ctx context.Context, target models.ReactionTarget, kind string) (int64, error)
	// TargetExists reports whether the target row exists at all, regardless
	// of its status.
	TargetExists(ctx context.Context, target models.ReactionTarget) (bool, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository.
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Find(ctx context.Context, userID uint, target models.ReactionTarget) (*models.ReactionEntry, error) {
	var entry models.ReactionEntry
	err := r.scopeTarget(r.db.WithContext(ctx), target).
		Where("user_id = ?", userID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *reactionRepository) Insert(ctx context.Context, entry *models.ReactionEntry) (bool, error) {
	// ON CONFLICT DO NOTHING keeps concurrent toggles from erroring out;
	// the caller re-reads state when the write was swallowed.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *reactionRepository) Delete(ctx context.Context, entryID uint) error {
	return r.db.WithContext(ctx).Delete(&models.ReactionEntry{}, entryID).Error
}

func (r *reactionRepository) Replace(ctx context.Context, old *models.ReactionEntry, entry *models.ReactionEntry) error {
	// remove-then-recreate inside one transaction; entries are never updated
	// in place
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ReactionEntry{}, old.ID).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(entry).Error
	})
}

func (r *reactionRepository) Count(ctx context.Context, target models.ReactionTarget, kind string) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&models.ReactionEntry{}).
		Where("reaction_entries.kind = ?", kind)

	// entries pointing at soft-deleted or hidden targets are excluded from
	// public counts; the rows themselves stay for audit
	switch target.Kind {
	case models.TargetPost:
		q = q.Joins("JOIN posts ON posts.id = reaction_entries.post_id").
			Where("reaction_entries.post_id = ?", target.ID).
			Where("posts.status <> ?", models.PostStatusDeleted)
	case models.TargetComment:
		q = q.Joins("JOIN comments ON comments.id = reaction_entries.comment_id").
			Where("reaction_entries.comment_id = ?", target.ID).
			Where("comments.status = ?", models.CommentStatusActive)
	default:
		return 0, errors.New("unknown reaction target kind")
	}

	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *reactionRepository) TargetExists(ctx context.Context, target models.ReactionTarget) (bool, error) {
	var count int64
	var err error
	switch target.Kind {
	case models.TargetPost:
		err = r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", target.ID).Count(&count).Error
	case models.TargetComment:
		err = r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", target.ID).Count(&count).Error
	default:
		return false, errors.New("unknown reaction target kind")
	}
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reactionRepository) scopeTarget(db *gorm.DB, target models.ReactionTarget) *gorm.DB {
	if target.Kind == models.TargetComment {
		return db.Where("comment_id = ?", target.ID)
	}
	return db.Where("post_id = ?", target.ID)
}
