package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/savoria/engine/internal/domain/menu"
	"github.com/savoria/engine/internal/ports/outbound"
)

// RatingRepository is the PostgreSQL-backed ratings store.
type RatingRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewRatingRepository creates a new rating repository.
func NewRatingRepository(pool *pgxpool.Pool, logger *zap.Logger) outbound.RatingRepository {
	return &RatingRepository{pool: pool, logger: logger}
}

// Save upserts a rating; a user re-rating an item overwrites the prior
// value.
func (r *RatingRepository) Save(ctx context.Context, rating menu.Rating) error {
	query := `INSERT INTO ratings (user_id, item_id, rating, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, item_id)
		DO UPDATE SET rating = EXCLUDED.rating, created_at = EXCLUDED.created_at`

	if _, err := r.pool.Exec(ctx, query, rating.UserID, rating.ItemID, rating.Value, rating.CreatedAt); err != nil {
		return fmt.Errorf("saving rating: %w", err)
	}
	return nil
}

// FindAll returns every rating, the training dump.
func (r *RatingRepository) FindAll(ctx context.Context) ([]menu.Rating, error) {
	return r.queryRatings(ctx,
		`SELECT user_id, item_id, rating, created_at FROM ratings ORDER BY created_at`)
}

// FindByUser returns one user's ratings, most recent first.
func (r *RatingRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]menu.Rating, error) {
	return r.queryRatings(ctx,
		`SELECT user_id, item_id, rating, created_at FROM ratings
		WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *RatingRepository) queryRatings(ctx context.Context, query string, args ...any) ([]menu.Rating, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ratings: %w", err)
	}
	defer rows.Close()

	var ratings []menu.Rating
	for rows.Next() {
		var rating menu.Rating
		if err := rows.Scan(&rating.UserID, &rating.ItemID, &rating.Value, &rating.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ratings: %w", err)
	}
	return ratings, nil
}
