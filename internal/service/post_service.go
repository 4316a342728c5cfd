package service

import (
	"context"
	"errors"
	"time"

	"follicle/internal/middleware"
	"follicle/internal/models"
	"follicle/internal/observability"
	"follicle/internal/repository"

	"gorm.io/gorm"
)

const (
	maxPostTitleLen   = 200
	maxPostContentLen = 50000
)

// postTransitions is the allowed status machine. Deleted is terminal;
// archived posts can come back to published.
var postTransitions = map[string][]string{
	models.PostStatusDraft:     {models.PostStatusPublished, models.PostStatusDeleted},
	models.PostStatusPublished: {models.PostStatusArchived, models.PostStatusDeleted},
	models.PostStatusArchived:  {models.PostStatusPublished, models.PostStatusDeleted},
	models.PostStatusDeleted:   {},
}

func canTransition(from, to string) bool {
	for _, allowed := range postTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// PostService implements the post lifecycle: drafts, publishing, archiving,
// soft deletion and per-viewer view counting.
type PostService struct {
	postRepo      repository.PostRepository
	categoryRepo  repository.CategoryRepository
	searchLogRepo repository.SearchLogRepository
	tags          *TagService
	isAdmin       func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	UserID     uint
	Title      string
	Content    string
	CategoryID *uint
	Tags       []string
	Draft      bool
}

type UpdatePostInput struct {
	UserID     uint
	PostID     uint
	Title      string
	Content    string
	CategoryID *uint
}

type ListPostsInput struct {
	UserID     uint
	CategoryID *uint
	AuthorID   uint
	TagName    string
	Sort       string
	Limit      int
	Offset     int
}

// NewPostService creates a new post service.
func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	searchLogRepo repository.SearchLogRepository,
	tags *TagService,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:      postRepo,
		categoryRepo:  categoryRepo,
		searchLogRepo: searchLogRepo,
		tags:          tags,
		isAdmin:       isAdmin,
	}
}

func (s *PostService) validatePostFields(title, content string) error {
	if title == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxPostTitleLen {
		return models.NewValidationError("Title too long (max 200 characters)")
	}
	if content == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxPostContentLen {
		return models.NewValidationError("Content too long (max 50000 characters)")
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := s.validatePostFields(in.Title, in.Content); err != nil {
		return nil, err
	}

	if in.CategoryID != nil {
		exists, err := s.categoryRepo.Exists(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, models.NewNotFoundError("category", *in.CategoryID)
		}
	}

	status := models.PostStatusPublished
	if in.Draft {
		status = models.PostStatusDraft
	}

	post := &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		AuthorID:   in.UserID,
		CategoryID: in.CategoryID,
		Status:     status,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	if len(in.Tags) > 0 {
		if _, err := s.tags.AssignTags(ctx, AssignTagsInput{UserID: in.UserID, PostID: post.ID, Names: in.Tags}); err != nil {
			return nil, err
		}
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// GetPost returns the post for the viewer. A missing row is NotFound; a row
// that exists but is not published is author-only and yields Forbidden for
// everyone else, including its author's deleted posts viewed by others.
func (s *PostService) GetPost(ctx context.Context, postID, userID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("post", postID)
	}
	if err != nil {
		return nil, err
	}
	if !post.Visible(userID) {
		return nil, models.NewForbiddenError("Post is not visible to you")
	}
	return post, nil
}

// ViewPost is GetPost plus view accounting: a logged-in viewer who is not the
// author bumps view_count, once ever per (viewer, post).
func (s *PostService) ViewPost(ctx context.Context, postID, userID uint) (*models.Post, error) {
	post, err := s.GetPost(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if userID != 0 && userID != post.AuthorID && post.Status == models.PostStatusPublished {
		first, err := s.postRepo.RecordView(ctx, userID, postID)
		if err != nil {
			middleware.Logger.WarnContext(ctx, "failed to record post view", "post_id", postID, "error", err)
		} else if first {
			post.ViewCount++
		}
	}

	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	limit := in.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	filter := repository.PostListFilter{
		CategoryID: in.CategoryID,
		AuthorID:   in.AuthorID,
		TagName:    in.TagName,
		Sort:       in.Sort,
	}
	return s.postRepo.List(ctx, filter, limit, in.Offset, in.UserID)
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID uint, limit, offset int, userID uint) ([]*models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.postRepo.ListByAuthor(ctx, authorID, limit, offset, userID)
}

// SearchPosts runs a full search and logs the query for the popular-queries
// board. The log write is fire-and-forget: it runs detached from the request
// and a failure only bumps a counter.
func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int, userID uint) ([]*models.Post, error) {
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	posts, err := s.postRepo.Search(ctx, query, limit, offset, userID)
	if err != nil {
		return nil, err
	}

	if s.searchLogRepo != nil {
		entry := &models.SearchLog{Query: query, Results: len(posts)}
		if userID != 0 {
			uid := userID
			entry.UserID = &uid
		}
		go func() {
			logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()
			if err := s.searchLogRepo.Insert(logCtx, entry); err != nil {
				observability.SearchLogDrops.Inc()
			}
		}()
	}

	return posts, nil
}

// PopularQueries returns the aggregated search board. Admin only.
func (s *PostService) PopularQueries(ctx context.Context, adminID uint, limit int) ([]*models.PopularQuery, error) {
	admin, err := s.requireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, models.NewForbiddenError("Moderator access required")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.searchLogRepo.Popular(ctx, limit)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	if err := s.validatePostFields(in.Title, in.Content); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("post", in.PostID)
	}
	if err != nil {
		return nil, err
	}

	if post.AuthorID != in.UserID {
		admin, err := s.requireAdmin(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, models.NewForbiddenError("You can only edit your own posts")
		}
	}
	if post.Status == models.PostStatusDeleted {
		return nil, models.NewInvalidStateError("Post is deleted")
	}

	if in.CategoryID != nil {
		exists, err := s.categoryRepo.Exists(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, models.NewNotFoundError("category", *in.CategoryID)
		}
		post.CategoryID = in.CategoryID
	}

	post.Title = in.Title
	post.Content = in.Content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// ChangeStatus moves the post through its lifecycle. The author drives their
// own posts; admins may soft-delete anything.
func (s *PostService) ChangeStatus(ctx context.Context, userID, postID uint, to string) (*models.Post, error) {
	if _, ok := postTransitions[to]; !ok {
		return nil, models.NewValidationError("Unknown post status")
	}

	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("post", postID)
	}
	if err != nil {
		return nil, err
	}

	if post.AuthorID != userID {
		admin, err := s.requireAdmin(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !admin || to != models.PostStatusDeleted {
			return nil, models.NewForbiddenError("You can only manage your own posts")
		}
	}

	if !canTransition(post.Status, to) {
		return nil, models.NewInvalidStateError("Cannot move post from " + post.Status + " to " + to)
	}

	if err := s.postRepo.UpdateStatus(ctx, postID, to); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, userID)
}

// DeletePost soft-deletes. Content, comments and reactions stay in storage.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	_, err := s.ChangeStatus(ctx, userID, postID, models.PostStatusDeleted)
	return err
}

func (s *PostService) requireAdmin(ctx context.Context, userID uint) (bool, error) {
	if s.isAdmin == nil {
		return false, nil
	}
	return s.isAdmin(ctx, userID)
}
