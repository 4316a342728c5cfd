package repository

import (
	"context"
	"strings"

	"follicle/internal/cache"
	"follicle/internal/models"
	"follicle/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostListFilter narrows List queries. Zero values mean "no filter".
type PostListFilter struct {
	CategoryID *uint
	AuthorID   uint
	TagName    string
	Sort       string
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	List(ctx context.Context, filter PostListFilter, limit, offset int, currentUserID uint) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	// RecordView increments view_count at most once per (viewer, post).
	// Returns true when this call was the first view.
	RecordView(ctx context.Context, userID, postID uint) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
// Reaction counts join nothing here: a post row's own status gates visibility
// before these numbers are ever shown.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.status IN ('active','deleted')) as comments_count, " +
		"(SELECT COUNT(*) FROM reaction_entries WHERE reaction_entries.post_id = posts.id AND reaction_entries.kind = 'like') as likes_count, " +
		"(SELECT COUNT(*) FROM reaction_entries WHERE reaction_entries.post_id = posts.id AND reaction_entries.kind = 'dislike') as dislikes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM reaction_entries WHERE reaction_entries.post_id = posts.id AND reaction_entries.user_id = ? AND reaction_entries.kind = 'like') as liked", currentUserID)
	}

	return db.Select(selectQuery)
}

// applySort appends the ORDER BY clause for the requested sort type.
// likes_count and comments_count are SELECT aliases from applyPostDetails.
func (r *postRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "top":
		return db.Order("likes_count DESC, posts.created_at DESC")
	case "active":
		return db.Order("comments_count DESC, posts.created_at DESC")
	default: // "new" and anything unrecognized
		return db.Order("posts.created_at DESC")
	}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
	if err == nil {
		cache.InvalidatePost(ctx, post.ID)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	defer observability.TrackQuery("get", "posts")()
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{}), currentUserID).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostListFilter, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	defer observability.TrackQuery("list", "posts")()
	var posts []*models.Post
	base := r.applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{}), currentUserID).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Where("posts.status = ?", models.PostStatusPublished)

	if filter.CategoryID != nil {
		base = base.Where("posts.category_id = ?", *filter.CategoryID)
	}
	if filter.AuthorID != 0 {
		base = base.Where("posts.author_id = ?", filter.AuthorID)
	}
	if filter.TagName != "" {
		base = base.
			Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name = ?", filter.TagName)
	}

	err := r.applySort(base, filter.Sort).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	defer observability.TrackQuery("list_by_author", "posts")()
	var posts []*models.Post
	q := r.applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{}), currentUserID).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Where("posts.author_id = ?", authorID)

	// non-published posts stay author-only even on the profile page
	if authorID != currentUserID {
		q = q.Where("posts.status = ?", models.PostStatusPublished)
	}

	err := q.Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	defer observability.TrackQuery("search", "posts")()
	var posts []*models.Post
	like := "%" + strings.ToLower(query) + "%"
	err := r.applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{}), currentUserID).
		Preload("Author").
		Where("posts.status = ?", models.PostStatusPublished).
		Where("LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ?", like, like).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("update", "posts")()
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	defer observability.TrackQuery("update_status", "posts")()
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) RecordView(ctx context.Context, userID, postID uint) (bool, error) {
	defer observability.TrackQuery("record_view", "posts")()
	var first bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PostView{UserID: userID, PostID: postID})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		first = true
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	})
	if err != nil {
		return false, err
	}
	if first {
		cache.Invalidate(ctx, cache.PostKey(postID))
	}
	return first, nil
}
