package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mstepanov/storefront/internal/models"
	"github.com/mstepanov/storefront/internal/repo"
	"github.com/mstepanov/storefront/internal/transport"
)

type UserService struct {
	Repo *repo.GormRepo
}

func (s *UserService) ListUsers(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	return s.Repo.ListUsers(ctx, offset, limit)
}

func (s *UserService) PatchUser(ctx context.Context, req transport.PatchUserRequest, id uint) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		if *req.Role != models.RoleUser && *req.Role != models.RoleAdmin {
			return nil, fmt.Errorf("%w: role must be user or admin", ErrValidation)
		}
		user.Role = *req.Role
	}
	if req.Status != nil {
		if *req.Status != models.UserStatusActive && *req.Status != models.UserStatusBanned {
			return nil, fmt.Errorf("%w: status must be active or banned", ErrValidation)
		}
		user.Status = *req.Status
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser refuses to remove a user who has placed orders; ban instead.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	n, err := s.Repo.CountOrdersByUser(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: user has existing orders", ErrConflict)
	}

	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user", ErrNotFound)
		}
		return err
	}
	return nil
}
