package repository

import (
	"context"
	"errors"
	"strings"

	"follicle/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository defines the interface for tag and post-tag persistence.
type TagRepository interface {
	// FindByName does a case-sensitive exact-name lookup; returns nil when absent.
	FindByName(ctx context.Context, name string) (*models.Tag, error)
	// Ensure returns the tag with the given name, creating it lazily. Safe
	// under concurrent callers: the unique name index resolves races.
	Ensure(ctx context.Context, name string) (*models.Tag, error)
	// Create inserts a new tag and reports false when the name already exists.
	Create(ctx context.Context, tag *models.Tag) (bool, error)
	// ReplaceAssignments swaps the whole tag set of a post and recomputes
	// usage_count for every tag in the union of the old and new sets.
	ReplaceAssignments(ctx context.Context, postID uint, tagIDs []uint) error
	// RemoveAssignmentsForTag drops every PostTag row of a tag (deactivation).
	RemoveAssignmentsForTag(ctx context.Context, tagID uint) error
	SetActive(ctx context.Context, tagID uint, active bool) error
	// Rank returns active tags with usage_count > 0, most used first, newer
	// tag winning ties.
	Rank(ctx context.Context, limit int) ([]*models.Tag, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Tag, error)
	TagsOfPost(ctx context.Context, postID uint) ([]*models.Tag, error)
	// UsageCount returns the live PostTag count for a tag, bypassing the
	// denormalized column.
	UsageCount(ctx context.Context, tagID uint) (int64, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) Ensure(ctx context.Context, name string) (*models.Tag, error) {
	if tag, err := r.FindByName(ctx, name); err != nil || tag != nil {
		return tag, err
	}

	tag := &models.Tag{Name: name, IsActive: true}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(tag).Error; err != nil {
		return nil, err
	}

	// re-read covers the case where a concurrent Ensure won the insert
	existing, err := r.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.New("tag vanished after ensure")
	}
	return existing, nil
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(tag)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *tagRepository) ReplaceAssignments(ctx context.Context, postID uint, tagIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var oldTagIDs []uint
		if err := tx.Model(&models.PostTag{}).
			Where("post_id = ?", postID).
			Pluck("tag_id", &oldTagIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("post_id = ?", postID).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}

		if len(tagIDs) > 0 {
			rows := make([]models.PostTag, 0, len(tagIDs))
			for _, tagID := range tagIDs {
				rows = append(rows, models.PostTag{PostID: postID, TagID: tagID})
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
				return err
			}
		}

		return recomputeUsageCounts(tx, union(oldTagIDs, tagIDs))
	})
}

func (r *tagRepository) RemoveAssignmentsForTag(ctx context.Context, tagID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", tagID).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		return recomputeUsageCounts(tx, []uint{tagID})
	})
}

func (r *tagRepository) SetActive(ctx context.Context, tagID uint, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Where("id = ?", tagID).
		Update("is_active", active).Error
}

// recomputeUsageCounts rederives usage_count from live PostTag rows. The
// column is never incremented or decremented in place, so it cannot drift.
func recomputeUsageCounts(tx *gorm.DB, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	return tx.Exec(
		"UPDATE tags SET usage_count = (SELECT COUNT(*) FROM post_tags WHERE post_tags.tag_id = tags.id) WHERE tags.id IN ?",
		tagIDs,
	).Error
}

func union(a, b []uint) []uint {
	seen := make(map[uint]struct{}, len(a)+len(b))
	out := make([]uint, 0, len(a)+len(b))
	for _, ids := range [][]uint{a, b} {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

func (r *tagRepository) Rank(ctx context.Context, limit int) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).
		Where("usage_count > 0").
		Where("is_active = ?", true).
		Order("usage_count DESC, created_at DESC").
		Limit(limit).
		Find(&tags).Error
	return tags, err
}

func (r *tagRepository) Search(ctx context.Context, query string, limit int) ([]*models.Tag, error) {
	var tags []*models.Tag
	like := "%" + strings.ToLower(query) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", like).
		Where("is_active = ?", true).
		Order("usage_count DESC").
		Limit(limit).
		Find(&tags).Error
	return tags, err
}

func (r *tagRepository) TagsOfPost(ctx context.Context, postID uint) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("post_tags.post_id = ?", postID).
		Order("tags.name ASC").
		Find(&tags).Error
	return tags, err
}

func (r *tagRepository) UsageCount(ctx context.Context, tagID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PostTag{}).
		Where("tag_id = ?", tagID).
		Count(&count).Error
	return count, err
}
