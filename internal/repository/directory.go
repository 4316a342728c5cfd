package repository

import (
	"context"
	"strings"

	"follicle/internal/models"

	"gorm.io/gorm"
)

// DirectoryRepository defines the interface for the hospital and product
// directories. Ratings are derived from active reviews at query time.
type DirectoryRepository interface {
	CreateHospital(ctx context.Context, hospital *models.Hospital) error
	GetHospital(ctx context.Context, id uint) (*models.Hospital, error)
	ListHospitals(ctx context.Context, query string, limit, offset int) ([]*models.Hospital, error)

	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	ListProducts(ctx context.Context, query string, limit, offset int) ([]*models.Product, error)
}

type directoryRepository struct {
	db *gorm.DB
}

// NewDirectoryRepository creates a new directory repository.
func NewDirectoryRepository(db *gorm.DB) DirectoryRepository {
	return &directoryRepository{db: db}
}

// applyRating adds average_rating and reviews_count aliases for one target kind.
// COALESCE keeps unreviewed rows at 0 instead of NULL.
func applyRating(db *gorm.DB, table, kind string) *gorm.DB {
	return db.Select(table + ".*, " +
		"COALESCE((SELECT AVG(rating) FROM reviews WHERE reviews.target_kind = '" + kind + "' AND reviews.target_id = " + table + ".id AND reviews.status = 'active'), 0) as average_rating, " +
		"(SELECT COUNT(*) FROM reviews WHERE reviews.target_kind = '" + kind + "' AND reviews.target_id = " + table + ".id AND reviews.status = 'active') as reviews_count")
}

func (r *directoryRepository) CreateHospital(ctx context.Context, hospital *models.Hospital) error {
	return r.db.WithContext(ctx).Create(hospital).Error
}

func (r *directoryRepository) GetHospital(ctx context.Context, id uint) (*models.Hospital, error) {
	var hospital models.Hospital
	err := applyRating(r.db.WithContext(ctx).Model(&models.Hospital{}), "hospitals", models.ReviewTargetHospital).
		First(&hospital, id).Error
	if err != nil {
		return nil, err
	}
	return &hospital, nil
}

func (r *directoryRepository) ListHospitals(ctx context.Context, query string, limit, offset int) ([]*models.Hospital, error) {
	var hospitals []*models.Hospital
	q := applyRating(r.db.WithContext(ctx).Model(&models.Hospital{}), "hospitals", models.ReviewTargetHospital)
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(hospitals.name) LIKE ? OR LOWER(hospitals.address) LIKE ?", like, like)
	}
	err := q.Order("average_rating DESC, hospitals.name ASC").
		Limit(limit).
		Offset(offset).
		Find(&hospitals).Error
	return hospitals, err
}

func (r *directoryRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *directoryRepository) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := applyRating(r.db.WithContext(ctx).Model(&models.Product{}), "products", models.ReviewTargetProduct).
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *directoryRepository) ListProducts(ctx context.Context, query string, limit, offset int) ([]*models.Product, error) {
	var products []*models.Product
	q := applyRating(r.db.WithContext(ctx).Model(&models.Product{}), "products", models.ReviewTargetProduct)
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(products.name) LIKE ? OR LOWER(products.brand) LIKE ?", like, like)
	}
	err := q.Order("average_rating DESC, products.name ASC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	return products, err
}
