package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/savoria/engine/internal/domain/menu"
	"github.com/savoria/engine/internal/ports/outbound"
)

// UserRepository is the PostgreSQL-backed user store.
type UserRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewUserRepository creates a new user repository.
func NewUserRepository(pool *pgxpool.Pool, logger *zap.Logger) outbound.UserRepository {
	return &UserRepository{pool: pool, logger: logger}
}

// FindByID looks up a user account.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (menu.User, error) {
	var user menu.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, created_at FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return menu.User{}, menu.ErrUserNotFound
		}
		return menu.User{}, fmt.Errorf("querying user %s: %w", id, err)
	}
	return user, nil
}

// Exists reports whether a user account exists.
func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking user %s: %w", id, err)
	}
	return exists, nil
}
