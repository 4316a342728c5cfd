package service

import (
	"context"
	"errors"

	"follicle/internal/cache"
	"follicle/internal/models"
	"follicle/internal/repository"

	"gorm.io/gorm"
)

// DirectoryService implements the hospital and product directories. Single
// entries are cached; their ratings come from active reviews at query time.
type DirectoryService struct {
	directoryRepo repository.DirectoryRepository
	isAdmin       func(ctx context.Context, userID uint) (bool, error)
}

type CreateHospitalInput struct {
	AdminID   uint
	Name      string
	Address   string
	Phone     string
	Specialty string
}

type CreateProductInput struct {
	AdminID     uint
	Name        string
	Brand       string
	Description string
}

// NewDirectoryService creates a new directory service.
func NewDirectoryService(
	directoryRepo repository.DirectoryRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *DirectoryService {
	return &DirectoryService{directoryRepo: directoryRepo, isAdmin: isAdmin}
}

func (s *DirectoryService) requireAdmin(ctx context.Context, userID uint) error {
	if s.isAdmin == nil {
		return models.NewForbiddenError("Moderator access required")
	}
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError("Moderator access required")
	}
	return nil
}

func (s *DirectoryService) CreateHospital(ctx context.Context, in CreateHospitalInput) (*models.Hospital, error) {
	if err := s.requireAdmin(ctx, in.AdminID); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}

	hospital := &models.Hospital{
		Name:      in.Name,
		Address:   in.Address,
		Phone:     in.Phone,
		Specialty: in.Specialty,
	}
	if err := s.directoryRepo.CreateHospital(ctx, hospital); err != nil {
		return nil, err
	}
	return hospital, nil
}

func (s *DirectoryService) GetHospital(ctx context.Context, id uint) (*models.Hospital, error) {
	var hospital models.Hospital
	err := cache.Aside(ctx, cache.HospitalKey(id), &hospital, cache.ListingTTL, func() error {
		got, err := s.directoryRepo.GetHospital(ctx, id)
		if err != nil {
			return err
		}
		hospital = *got
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("hospital", id)
	}
	if err != nil {
		return nil, err
	}
	return &hospital, nil
}

func (s *DirectoryService) ListHospitals(ctx context.Context, query string, limit, offset int) ([]*models.Hospital, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.directoryRepo.ListHospitals(ctx, query, limit, offset)
}

func (s *DirectoryService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if err := s.requireAdmin(ctx, in.AdminID); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}

	product := &models.Product{
		Name:        in.Name,
		Brand:       in.Brand,
		Description: in.Description,
	}
	if err := s.directoryRepo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *DirectoryService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := cache.Aside(ctx, cache.ProductKey(id), &product, cache.ListingTTL, func() error {
		got, err := s.directoryRepo.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		product = *got
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("product", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *DirectoryService) ListProducts(ctx context.Context, query string, limit, offset int) ([]*models.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.directoryRepo.ListProducts(ctx, query, limit, offset)
}
