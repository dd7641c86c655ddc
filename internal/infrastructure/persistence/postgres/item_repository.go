package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/savoria/engine/internal/domain/menu"
	"github.com/savoria/engine/internal/ports/outbound"
)

// ItemRepository is the PostgreSQL-backed menu catalog.
type ItemRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewItemRepository creates a new item repository.
func NewItemRepository(pool *pgxpool.Pool, logger *zap.Logger) outbound.ItemRepository {
	return &ItemRepository{pool: pool, logger: logger}
}

const itemColumns = `id, name, description, price, cuisine, category,
	available_morning, available_afternoon, available_evening,
	available_sunny, available_rainy`

func scanItem(row pgx.Row) (menu.Item, error) {
	var item menu.Item
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.Price,
		&item.Cuisine, &item.Category,
		&item.Availability.Morning, &item.Availability.Afternoon, &item.Availability.Evening,
		&item.Availability.Sunny, &item.Availability.Rainy,
	)
	return item, err
}

// FindByID looks up a single menu item.
func (r *ItemRepository) FindByID(ctx context.Context, id int64) (menu.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM menu_items WHERE id = $1`, itemColumns)
	item, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return menu.Item{}, menu.ErrItemNotFound
		}
		return menu.Item{}, fmt.Errorf("querying item %d: %w", id, err)
	}
	return item, nil
}

// FindAll returns the full catalog.
func (r *ItemRepository) FindAll(ctx context.Context) ([]menu.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM menu_items ORDER BY id`, itemColumns)
	return r.queryItems(ctx, query)
}

// FindByCuisineAndCategories returns items of one cuisine in any of the
// given categories.
func (r *ItemRepository) FindByCuisineAndCategories(ctx context.Context, cuisine string, categories []string) ([]menu.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM menu_items
		WHERE cuisine = $1 AND category = ANY($2)
		ORDER BY id`, itemColumns)
	return r.queryItems(ctx, query, cuisine, categories)
}

func (r *ItemRepository) queryItems(ctx context.Context, query string, args ...any) ([]menu.Item, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []menu.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

// Cuisines lists the distinct cuisines of the catalog.
func (r *ItemRepository) Cuisines(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx, `SELECT DISTINCT cuisine FROM menu_items ORDER BY cuisine`)
}

// Categories lists the distinct categories of one cuisine.
func (r *ItemRepository) Categories(ctx context.Context, cuisine string) ([]string, error) {
	return r.queryStrings(ctx,
		`SELECT DISTINCT category FROM menu_items WHERE cuisine = $1 ORDER BY category`, cuisine)
}

func (r *ItemRepository) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog metadata: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning catalog metadata: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog metadata: %w", err)
	}
	return out, nil
}
