package repository

import (
	"context"

	"follicle/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository defines the interface for hospital/product review persistence.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	// ListByTarget returns active reviews of one hospital or product.
	ListByTarget(ctx context.Context, targetKind string, targetID uint, limit, offset int) ([]*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	// HasActiveReview reports whether the user already reviewed this target.
	HasActiveReview(ctx context.Context, authorID uint, targetKind string, targetID uint) (bool, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Preload("Author").First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListByTarget(ctx context.Context, targetKind string, targetID uint, limit, offset int) ([]*models.Review, error) {
	var reviews []*models.Review
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("target_kind = ? AND target_id = ?", targetKind, targetID).
		Where("status = ?", models.ReviewStatusActive).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *reviewRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *reviewRepository) HasActiveReview(ctx context.Context, authorID uint, targetKind string, targetID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("author_id = ? AND target_kind = ? AND target_id = ?", authorID, targetKind, targetID).
		Where("status = ?", models.ReviewStatusActive).
		Count(&count).Error
	return count > 0, err
}
