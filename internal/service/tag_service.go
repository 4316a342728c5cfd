package service

import (
	"context"
	"errors"
	"strings"

	"follicle/internal/cache"
	"follicle/internal/models"
	"follicle/internal/observability"
	"follicle/internal/repository"

	"gorm.io/gorm"
)

const (
	maxTagsPerPost = 5
	maxTagLen      = 40
)

// TagService implements the tag registry: lazy creation on assignment,
// derived usage counts, and the usage leaderboard.
type TagService struct {
	tagRepo  repository.TagRepository
	postRepo repository.PostRepository
	isAdmin  func(ctx context.Context, userID uint) (bool, error)
}

type AssignTagsInput struct {
	UserID uint
	PostID uint
	Names  []string
}

// NewTagService creates a new tag service.
func NewTagService(
	tagRepo repository.TagRepository,
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *TagService {
	return &TagService{tagRepo: tagRepo, postRepo: postRepo, isAdmin: isAdmin}
}

// normalizeTagName canonicalizes a raw tag name. Tags are stored lowercase so
// "Minoxidil" and "minoxidil" are the same tag.
func normalizeTagName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// CreateTag registers a tag explicitly. Duplicate names conflict here, unlike
// the lazy creation on assignment which silently reuses the existing tag.
func (s *TagService) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	name = normalizeTagName(name)
	if name == "" {
		return nil, models.NewValidationError("Tag name is required")
	}
	if len(name) > maxTagLen {
		return nil, models.NewValidationError("Tag name too long (max 40 characters)")
	}

	tag := &models.Tag{Name: name, IsActive: true}
	created, err := s.tagRepo.Create(ctx, tag)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, models.NewConflictError("Tag already exists")
	}
	return tag, nil
}

// AssignTags replaces the post's tag set with the given names. Unknown names
// are created on the fly; an assigned tag that had been deactivated comes
// back active. Only the post author may retag.
func (s *TagService) AssignTags(ctx context.Context, in AssignTagsInput) ([]*models.Tag, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("post", in.PostID)
	}
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only tag your own posts")
	}
	if post.Status == models.PostStatusDeleted {
		return nil, models.NewInvalidStateError("Post is deleted")
	}

	names := make([]string, 0, len(in.Names))
	seen := make(map[string]struct{}, len(in.Names))
	for _, raw := range in.Names {
		name := normalizeTagName(raw)
		if name == "" {
			continue
		}
		if len(name) > maxTagLen {
			return nil, models.NewValidationError("Tag name too long (max 40 characters)")
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if len(names) > maxTagsPerPost {
		return nil, models.NewValidationError("Too many tags (max 5 per post)")
	}

	tagIDs := make([]uint, 0, len(names))
	for _, name := range names {
		tag, err := s.tagRepo.Ensure(ctx, name)
		if err != nil {
			return nil, err
		}
		if !tag.IsActive {
			if err := s.tagRepo.SetActive(ctx, tag.ID, true); err != nil {
				return nil, err
			}
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	if err := s.tagRepo.ReplaceAssignments(ctx, in.PostID, tagIDs); err != nil {
		return nil, err
	}
	observability.TagRecomputes.Inc()
	cache.InvalidateTagRanks(ctx)
	cache.InvalidatePost(ctx, in.PostID)

	return s.tagRepo.TagsOfPost(ctx, in.PostID)
}

// Rank returns the usage leaderboard, 1-indexed. Ties rank in board order, so
// two tags never share a position.
func (s *TagService) Rank(ctx context.Context, limit int) ([]*models.RankedTag, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var ranked []*models.RankedTag
	err := cache.Aside(ctx, cache.TagRankKey(limit), &ranked, cache.TagRankTTL, func() error {
		tags, err := s.tagRepo.Rank(ctx, limit)
		if err != nil {
			return err
		}
		ranked = make([]*models.RankedTag, 0, len(tags))
		for i, tag := range tags {
			ranked = append(ranked, &models.RankedTag{
				TagID:      tag.ID,
				Name:       tag.Name,
				UsageCount: tag.UsageCount,
				Rank:       i + 1,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ranked, nil
}

func (s *TagService) SearchTags(ctx context.Context, query string, limit int) ([]*models.Tag, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.tagRepo.Search(ctx, query, limit)
}

func (s *TagService) TagsOfPost(ctx context.Context, postID uint) ([]*models.Tag, error) {
	return s.tagRepo.TagsOfPost(ctx, postID)
}

// DeactivateTag takes a tag off the boards and strips it from every post.
// Moderation only.
func (s *TagService) DeactivateTag(ctx context.Context, adminID, tagID uint) error {
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

	if err := s.tagRepo.SetActive(ctx, tagID, false); err != nil {
		return err
	}
	if err := s.tagRepo.RemoveAssignmentsForTag(ctx, tagID); err != nil {
		return err
	}
	observability.TagRecomputes.Inc()
	cache.InvalidateTagRanks(ctx)
	return nil
}
