package service

import (
	"context"
	"log"

	"github.com/a-buianova/explore-with-me/internal/apperr"
	"github.com/a-buianova/explore-with-me/internal/model"
	"github.com/a-buianova/explore-with-me/internal/repository"
)

// CategoryService handles category administration and public reads.
type CategoryService struct {
	categories *repository.CategoryRepository
	events     *repository.EventRepository
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(categories *repository.CategoryRepository, events *repository.EventRepository) *CategoryService {
	return &CategoryService{categories: categories, events: events}
}

// Create adds a category; duplicate names are a Conflict.
func (s *CategoryService) Create(ctx context.Context, req *model.NewCategoryRequest) (*model.Category, error) {
	category := &model.Category{Name: req.Name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	log.Printf("created category id=%d name=%q", category.ID, category.Name)
	return category, nil
}

// Update renames a category.
func (s *CategoryService) Update(ctx context.Context, id int64, req *model.NewCategoryRequest) (*model.Category, error) {
	category, err := s.categories.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = req.Name
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category unless events still reference it.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.categories.Get(ctx, id); err != nil {
		return err
	}
	inUse, err := s.events.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return apperr.Conflict("cannot delete category with existing events")
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("deleted category id=%d", id)
	return nil
}

// List returns categories with offset pagination.
func (s *CategoryService) List(ctx context.Context, from, size int) ([]model.Category, error) {
	return s.categories.List(ctx, from, size)
}

// Get returns a single category.
func (s *CategoryService) Get(ctx context.Context, id int64) (*model.Category, error) {
	return s.categories.Get(ctx, id)
}
