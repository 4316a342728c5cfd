package repository

import (
	"context"

	"follicle/internal/models"

	"gorm.io/gorm"
)

// SearchLogRepository defines the interface for search query logging.
type SearchLogRepository interface {
	Insert(ctx context.Context, log *models.SearchLog) error
	// Popular aggregates the most frequent queries, most searched first.
	Popular(ctx context.Context, limit int) ([]*models.PopularQuery, error)
}

type searchLogRepository struct {
	db *gorm.DB
}

// NewSearchLogRepository creates a new search log repository.
func NewSearchLogRepository(db *gorm.DB) SearchLogRepository {
	return &searchLogRepository{db: db}
}

func (r *searchLogRepository) Insert(ctx context.Context, log *models.SearchLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *searchLogRepository) Popular(ctx context.Context, limit int) ([]*models.PopularQuery, error) {
	var rows []*models.PopularQuery
	err := r.db.WithContext(ctx).
		Model(&models.SearchLog{}).
		Select("query, COUNT(*) as count").
		Group("query").
		Order("count DESC, query ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
