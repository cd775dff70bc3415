package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/a-buianova/explore-with-me/internal/apperr"
	"github.com/a-buianova/explore-with-me/internal/model"
)

// CategoryRepository handles persistence for categories.
type CategoryRepository struct {
	db *pgxpool.Pool
}

// NewCategoryRepository constructs a CategoryRepository.
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a category; names are unique.
func (r *CategoryRepository) Create(ctx context.Context, c *model.Category) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, c.Name,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("category name already exists: %s", c.Name)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// Get returns a category or NotFound.
func (r *CategoryRepository) Get(ctx context.Context, id int64) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRow(ctx,
		`SELECT id, name FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("category not found: id=%d", id)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// Update renames a category.
func (r *CategoryRepository) Update(ctx context.Context, c *model.Category) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE categories SET name = $1 WHERE id = $2`, c.Name, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("category name already exists: %s", c.Name)
		}
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("category not found: id=%d", c.ID)
	}
	return nil
}

// Delete removes a category or reports NotFound. The in-use guard lives in
// the service.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.Conflict("cannot delete category with existing events")
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("category not found: id=%d", id)
	}
	return nil
}

// List returns categories with offset pagination, id ascending.
func (r *CategoryRepository) List(ctx context.Context, from, size int) ([]model.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name FROM categories ORDER BY id OFFSET $1 LIMIT $2`, from, size)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
