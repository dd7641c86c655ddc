// Package outbound defines the interfaces for outbound ports (secondary/driven adapters).
// These are the interfaces the engine uses to reach external systems.
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/savoria/engine/internal/domain/menu"
)

// ItemRepository provides read access to the menu catalog. The catalog is
// owned by an external collaborator; the engine never writes to it.
type ItemRepository interface {
	FindByID(ctx context.Context, id int64) (menu.Item, error)
	FindAll(ctx context.Context) ([]menu.Item, error)

	// FindByCuisineAndCategories returns items of the given cuisine in any
	// of the given categories.
	FindByCuisineAndCategories(ctx context.Context, cuisine string, categories []string) ([]menu.Item, error)

	// Catalog metadata
	Cuisines(ctx context.Context) ([]string, error)
	Categories(ctx context.Context, cuisine string) ([]string, error)
}

// RatingRepository provides the ratings store. Append/upsert only; ratings
// are never mutated by the engine beyond Save.
type RatingRepository interface {
	Save(ctx context.Context, rating menu.Rating) error
	FindAll(ctx context.Context) ([]menu.Rating, error)

	// FindByUser returns the user's ratings, most recent first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]menu.Rating, error)
}

// UserRepository provides read access to user accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (menu.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// RecommendationCache caches serialized recommendation responses keyed by
// a request hash.
type RecommendationCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

// ArtifactInfo describes one persisted model artifact.
type ArtifactInfo struct {
	Exists bool   `json:"exists"`
	Path   string `json:"path"`
	Size   int64  `json:"size"`
}

// ModelStore persists trained model snapshots and reports on the stored
// artifacts.
type ModelStore interface {
	Save(name string, data []byte) error
	Load(name string) ([]byte, error)
	Info() map[string]ArtifactInfo
}
