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

// UserRepository handles persistence for users.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. Emails are unique, case-insensitively.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id`,
		u.Name, u.Email,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("email already exists: %s", u.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Get returns a user or NotFound.
func (r *UserRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := r.db.QueryRow(ctx,
		`SELECT id, name, email FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user not found: id=%d", id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// FindByIDs returns the users matching ids; missing ids are silently
// skipped, matching the admin listing contract.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, email FROM users WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("find users by ids: %w", err)
	}
	return collectUsers(rows)
}

// List returns users with offset pagination, id ascending.
func (r *UserRepository) List(ctx context.Context, from, size int) ([]model.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, email FROM users ORDER BY id OFFSET $1 LIMIT $2`, from, size)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return collectUsers(rows)
}

// Delete removes a user or reports NotFound. A user who still initiates
// events or holds participation requests cannot be deleted; the foreign
// keys block it and the violation surfaces as a Conflict.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.Conflict("user %d still has events or requests", id)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found: id=%d", id)
	}
	return nil
}

func collectUsers(rows pgx.Rows) ([]model.User, error) {
	defer rows.Close()
	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
