package service

import (
	"context"

	"follicle/internal/models"
	"follicle/internal/repository"
)

// BookmarkService implements saved posts. Saving is idempotent: saving twice
// is one bookmark, unsaving something never saved is a no-op.
type BookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
	postRepo     repository.PostRepository
}

// NewBookmarkService creates a new bookmark service.
func NewBookmarkService(bookmarkRepo repository.BookmarkRepository, postRepo repository.PostRepository) *BookmarkService {
	return &BookmarkService{bookmarkRepo: bookmarkRepo, postRepo: postRepo}
}

func (s *BookmarkService) Save(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return models.NewNotFoundError("post", postID)
	}
	if !post.Visible(userID) {
		return models.NewForbiddenError("Post is not visible to you")
	}

	_, err = s.bookmarkRepo.Insert(ctx, userID, postID)
	return err
}

func (s *BookmarkService) Remove(ctx context.Context, userID, postID uint) error {
	return s.bookmarkRepo.Delete(ctx, userID, postID)
}

func (s *BookmarkService) List(ctx context.Context, userID uint, limit, offset int) ([]*models.Bookmark, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.bookmarkRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *BookmarkService) IsSaved(ctx context.Context, userID, postID uint) (bool, error) {
	bookmark, err := s.bookmarkRepo.Find(ctx, userID, postID)
	if err != nil {
		return false, err
	}
	return bookmark != nil, nil
}
