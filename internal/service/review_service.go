package service

import (
	"context"
	"errors"

	"follicle/internal/cache"
	"follicle/internal/models"
	"follicle/internal/repository"

	"gorm.io/gorm"
)

// ReviewService implements rated reviews of hospitals and products. One
// active review per user and target; ratings roll up into the directory.
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	directoryRepo repository.DirectoryRepository
	isAdmin       func(ctx context.Context, userID uint) (bool, error)
}

type CreateReviewInput struct {
	AuthorID   uint
	TargetKind string
	TargetID   uint
	Rating     int
	Content    string
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	directoryRepo repository.DirectoryRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, directoryRepo: directoryRepo, isAdmin: isAdmin}
}

func (s *ReviewService) targetExists(ctx context.Context, kind string, id uint) error {
	var err error
	switch kind {
	case models.ReviewTargetHospital:
		_, err = s.directoryRepo.GetHospital(ctx, id)
	case models.ReviewTargetProduct:
		_, err = s.directoryRepo.GetProduct(ctx, id)
	default:
		return models.NewValidationError("Review target must be a hospital or a product")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(kind, id)
	}
	return err
}

func (s *ReviewService) invalidateTarget(ctx context.Context, kind string, id uint) {
	switch kind {
	case models.ReviewTargetHospital:
		cache.Invalidate(ctx, cache.HospitalKey(id))
	case models.ReviewTargetProduct:
		cache.Invalidate(ctx, cache.ProductKey(id))
	}
}

func (s *ReviewService) CreateReview(ctx context.Context, in CreateReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, models.NewValidationError("Rating must be between 1 and 5")
	}
	const maxReviewLen = 5000
	if len(in.Content) > maxReviewLen {
		return nil, models.NewValidationError("Review too long (max 5000 characters)")
	}

	if err := s.targetExists(ctx, in.TargetKind, in.TargetID); err != nil {
		return nil, err
	}

	already, err := s.reviewRepo.HasActiveReview(ctx, in.AuthorID, in.TargetKind, in.TargetID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, models.NewConflictError("You already reviewed this")
	}

	review := &models.Review{
		AuthorID:   in.AuthorID,
		TargetKind: in.TargetKind,
		TargetID:   in.TargetID,
		Rating:     in.Rating,
		Content:    in.Content,
		Status:     models.ReviewStatusActive,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	s.invalidateTarget(ctx, in.TargetKind, in.TargetID)
	return review, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, targetKind string, targetID uint, limit, offset int) ([]*models.Review, error) {
	if targetKind != models.ReviewTargetHospital && targetKind != models.ReviewTargetProduct {
		return nil, models.NewValidationError("Review target must be a hospital or a product")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.reviewRepo.ListByTarget(ctx, targetKind, targetID, limit, offset)
}

// DeleteReview soft-deletes, dropping the review out of the rating rollup.
func (s *ReviewService) DeleteReview(ctx context.Context, userID, reviewID uint) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("review", reviewID)
	}
	if err != nil {
		return err
	}

	if review.AuthorID != userID {
		admin := false
		if s.isAdmin != nil {
			admin, err = s.isAdmin(ctx, userID)
			if err != nil {
				return err
			}
		}
		if !admin {
			return models.NewForbiddenError("You can only delete your own reviews")
		}
	}
	if review.Status == models.ReviewStatusDeleted {
		return models.NewInvalidStateError("Review is already deleted")
	}

	if err := s.reviewRepo.UpdateStatus(ctx, reviewID, models.ReviewStatusDeleted); err != nil {
		return err
	}
	s.invalidateTarget(ctx, review.TargetKind, review.TargetID)
	return nil
}
