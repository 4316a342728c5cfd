package service

import (
	"context"
	"errors"
	"regexp"

	"follicle/internal/models"
	"follicle/internal/repository"

	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// CategoryService implements board categories. Creation is admin-only; the
// set is small and changes rarely.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	isAdmin      func(ctx context.Context, userID uint) (bool, error)
}

type CreateCategoryInput struct {
	AdminID     uint
	Name        string
	Slug        string
	Description string
}

// NewCategoryService creates a new category service.
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, isAdmin: isAdmin}
}

func (s *CategoryService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if s.isAdmin == nil {
		return nil, models.NewForbiddenError("Moderator access required")
	}
	admin, err := s.isAdmin(ctx, in.AdminID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, models.NewForbiddenError("Moderator access required")
	}

	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if !slugPattern.MatchString(in.Slug) {
		return nil, models.NewValidationError("Slug must be lowercase words joined by dashes")
	}

	existing, err := s.categoryRepo.GetBySlug(ctx, in.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Category slug already exists")
	}

	category := &models.Category{Name: in.Name, Slug: in.Slug, Description: in.Description}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("category", id)
	}
	return category, err
}
