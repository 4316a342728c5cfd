package service

import (
	"context"
	"errors"

	"follicle/internal/models"
	"follicle/internal/observability"
	"follicle/internal/repository"

	"gorm.io/gorm"
)

const maxCommentLen = 10000

// CommentPlaceholder replaces the body of a soft-deleted comment in API
// responses. The original content stays in storage for moderation.
const CommentPlaceholder = "[deleted]"

// CommentService implements comment threads: root comments and one level of
// replies, with soft deletion that keeps thread structure intact.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

type CreateCommentInput struct {
	UserID          uint
	PostID          uint
	Content         string
	ParentCommentID *uint
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

type ListCommentsInput struct {
	PostID uint
	UserID uint
	Limit  int
	Offset int
}

// NewCommentService creates a new comment service.
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		isAdmin:     isAdmin,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("post", in.PostID)
	}
	if err != nil {
		return nil, err
	}
	// only published posts take comments; drafts and archived posts look
	// absent to commenters
	if post.Status != models.PostStatusPublished {
		return nil, models.NewNotFoundError("post", in.PostID)
	}

	if in.ParentCommentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentCommentID, 0)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("comment", *in.ParentCommentID)
		}
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
		if !parent.IsRoot() {
			return nil, models.NewInvalidNestingError()
		}
		if parent.Status != models.CommentStatusActive {
			return nil, models.NewInvalidStateError("Cannot reply to a removed comment")
		}
	}

	comment := &models.Comment{
		PostID:          in.PostID,
		AuthorID:        in.UserID,
		Content:         in.Content,
		ParentCommentID: in.ParentCommentID,
		Status:          models.CommentStatusActive,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.CommentWrites.WithLabelValues("create").Inc()

	return s.commentRepo.GetByID(ctx, comment.ID, in.UserID)
}

// ListComments returns the post's comment tree: root comments oldest first,
// each carrying its replies. Soft-deleted comments appear with placeholder
// content so reply threads under them stay readable.
func (s *CommentService) ListComments(ctx context.Context, in ListCommentsInput) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, in.PostID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", in.PostID)
		}
		return nil, err
	}

	roots, err := s.commentRepo.ListRootsByPost(ctx, in.PostID, in.Limit, in.Offset, in.UserID)
	if err != nil {
		return nil, err
	}

	parentIDs := make([]uint, 0, len(roots))
	for _, root := range roots {
		parentIDs = append(parentIDs, root.ID)
	}
	replies, err := s.commentRepo.RepliesOf(ctx, parentIDs, in.UserID)
	if err != nil {
		return nil, err
	}

	byParent := make(map[uint][]*models.Comment, len(roots))
	for _, reply := range replies {
		redactDeleted(reply)
		byParent[*reply.ParentCommentID] = append(byParent[*reply.ParentCommentID], reply)
	}
	for _, root := range roots {
		redactDeleted(root)
		root.Replies = byParent[root.ID]
	}

	return roots, nil
}

func redactDeleted(c *models.Comment) {
	if c.Status == models.CommentStatusDeleted {
		c.Content = CommentPlaceholder
		c.LikesCount = 0
		c.Liked = false
	}
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID, 0)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("comment", in.CommentID)
	}
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != in.UserID {
		admin := false
		if s.isAdmin != nil {
			admin, err = s.isAdmin(ctx, in.UserID)
			if err != nil {
				return nil, err
			}
		}
		if !admin {
			return nil, models.NewForbiddenError("You can only edit your own comments")
		}
	}
	if comment.Status != models.CommentStatusActive {
		return nil, models.NewInvalidStateError("Comment is no longer editable")
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	observability.CommentWrites.WithLabelValues("update").Inc()

	return s.commentRepo.GetByID(ctx, comment.ID, in.UserID)
}

// DeleteComment soft-deletes: the row keeps its content and its replies keep
// their parent, viewers just see a placeholder.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID, 0)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("comment", in.CommentID)
	}
	if err != nil {
		return err
	}

	if comment.AuthorID != in.UserID {
		admin := false
		if s.isAdmin != nil {
			admin, err = s.isAdmin(ctx, in.UserID)
			if err != nil {
				return err
			}
		}
		if !admin {
			return models.NewForbiddenError("You can only delete your own comments")
		}
	}
	if comment.Status == models.CommentStatusDeleted {
		return models.NewInvalidStateError("Comment is already deleted")
	}

	if err := s.commentRepo.UpdateStatus(ctx, in.CommentID, models.CommentStatusDeleted); err != nil {
		return err
	}
	observability.CommentWrites.WithLabelValues("delete").Inc()
	return nil
}

// HideComment is the moderation path: admins take a comment out of public
// listings entirely without touching the author-facing deleted state.
func (s *CommentService) HideComment(ctx context.Context, adminID, commentID uint) error {
	if s.isAdmin == nil {
		return models.NewForbiddenError("Moderator access required")
	}
	admin, err := s.isAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError("Moderator access required")
	}

	if _, err := s.commentRepo.GetByID(ctx, commentID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("comment", commentID)
		}
		return err
	}

	if err := s.commentRepo.UpdateStatus(ctx, commentID, models.CommentStatusHidden); err != nil {
		return err
	}
	observability.CommentWrites.WithLabelValues("hide").Inc()
	return nil
}
