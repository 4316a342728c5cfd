package repository

import (
	"context"
	"errors"

	"follicle/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookmarkRepository defines the interface for saved-post operations.
type BookmarkRepository interface {
	Find(ctx context.Context, userID, postID uint) (*models.Bookmark, error)
	// Insert reports false when the unique constraint swallowed the write.
	Insert(ctx context.Context, userID, postID uint) (bool, error)
	Delete(ctx context.Context, userID, postID uint) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Bookmark, error)
	CountForPost(ctx context.Context, postID uint) (int64, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository creates a new bookmark repository.
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Find(ctx context.Context, userID, postID uint) (*models.Bookmark, error) {
	var bookmark models.Bookmark
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&bookmark).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bookmark, nil
}

func (r *bookmarkRepository) Insert(ctx context.Context, userID, postID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Bookmark{UserID: userID, PostID: postID})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *bookmarkRepository) Delete(ctx context.Context, userID, postID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Bookmark{}).Error
}

func (r *bookmarkRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Bookmark, error) {
	var bookmarks []*models.Bookmark
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Post.Author").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&bookmarks).Error
	return bookmarks, err
}

func (r *bookmarkRepository) CountForPost(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Bookmark{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
