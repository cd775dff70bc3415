package service

import (
	"context"
	"log"

	"github.com/a-buianova/explore-with-me/internal/model"
	"github.com/a-buianova/explore-with-me/internal/repository"
)

// UserService handles user administration.
type UserService struct {
	users *repository.UserRepository
}

// NewUserService constructs a UserService.
func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Create registers a user; duplicate emails are a Conflict.
func (s *UserService) Create(ctx context.Context, req *model.NewUserRequest) (*model.User, error) {
	user := &model.User{Name: req.Name, Email: req.Email}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("created user id=%d email=%s", user.ID, user.Email)
	return user, nil
}

// List returns users by id filter when ids is non-empty, otherwise a
// paginated listing.
func (s *UserService) List(ctx context.Context, ids []int64, from, size int) ([]model.User, error) {
	if len(ids) > 0 {
		return s.users.FindByIDs(ctx, ids)
	}
	return s.users.List(ctx, from, size)
}

// Delete removes a user; missing users are a NotFound.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("deleted user id=%d", id)
	return nil
}
