package repository

import (
	"context"

	"follicle/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines interface for comment operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Comment, error)
	// ListRootsByPost returns root comments with status active or deleted,
	// oldest first. Hidden comments never appear in public listings.
	ListRootsByPost(ctx context.Context, postID uint, limit, offset int, currentUserID uint) ([]*models.Comment, error)
	// RepliesOf returns the direct children of the given root comments.
	RepliesOf(ctx context.Context, parentIDs []uint, currentUserID uint) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	CountByPost(ctx context.Context, postID uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// applyCommentDetails adds subqueries to fetch the like count and liked
// status in a single query.
func (r *commentRepository) applyCommentDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "comments.*, " +
		"(SELECT COUNT(*) FROM reaction_entries WHERE reaction_entries.comment_id = comments.id AND reaction_entries.kind = 'like') as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM reaction_entries WHERE reaction_entries.comment_id = comments.id AND reaction_entries.user_id = ? AND reaction_entries.kind = 'like') as liked", currentUserID)
	}

	return db.Select(selectQuery)
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.applyCommentDetails(r.db.WithContext(ctx).Model(&models.Comment{}), currentUserID).
		Preload("Author").
		First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListRootsByPost(ctx context.Context, postID uint, limit, offset int, currentUserID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.applyCommentDetails(r.db.WithContext(ctx).Model(&models.Comment{}), currentUserID).
		Preload("Author").
		Where("post_id = ?", postID).
		Where("parent_comment_id IS NULL").
		Where("status IN ?", []string{models.CommentStatusActive, models.CommentStatusDeleted}).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) RepliesOf(ctx context.Context, parentIDs []uint, currentUserID uint) ([]*models.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var replies []*models.Comment
	err := r.applyCommentDetails(r.db.WithContext(ctx).Model(&models.Comment{}), currentUserID).
		Preload("Author").
		Where("parent_comment_id IN ?", parentIDs).
		Where("status IN ?", []string{models.CommentStatusActive, models.CommentStatusDeleted}).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(comment).Error
}

func (r *commentRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *commentRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Where("status IN ?", []string{models.CommentStatusActive, models.CommentStatusDeleted}).
		Count(&count).Error
	return count, err
}
