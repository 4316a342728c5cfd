package service

import (
	"context"
	"errors"

	"follicle/internal/models"
	"follicle/internal/repository"

	"gorm.io/gorm"
)

// UserService implements profile reads and updates. Credential handling
// (registration, login) lives at the HTTP boundary with the token code.
type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	UserID   uint
	Nickname string
	Bio      string
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("user", id)
	}
	return user, err
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUserByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxNicknameLen = 30

	if in.Nickname != "" {
		if len(in.Nickname) > maxNicknameLen {
			return nil, models.NewValidationError("Nickname too long (max 30 characters)")
		}
		user.Nickname = in.Nickname
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetRole grants or revokes the admin role. Callers gate this behind an
// admin check at the boundary.
func (s *UserService) SetRole(ctx context.Context, targetID uint, role string) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, models.NewValidationError("Unknown role")
	}

	user, err := s.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// IsAdmin is the admin-check hook injected into the other services.
func (s *UserService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	return s.userRepo.IsAdmin(ctx, userID)
}
