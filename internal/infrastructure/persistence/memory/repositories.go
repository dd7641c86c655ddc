// Package memory provides in-memory repository implementations used in
// development mode and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/savoria/engine/internal/domain/menu"
	"github.com/savoria/engine/internal/ports/outbound"
)

// ItemRepository is an in-memory menu catalog.
type ItemRepository struct {
	mu    sync.RWMutex
	items map[int64]menu.Item
}

// NewItemRepository creates an item repository seeded with the given
// catalog.
func NewItemRepository(items ...menu.Item) *ItemRepository {
	r := &ItemRepository{items: make(map[int64]menu.Item, len(items))}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return r
}

var _ outbound.ItemRepository = (*ItemRepository)(nil)

// Add inserts or replaces a catalog item.
func (r *ItemRepository) Add(item menu.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
}

func (r *ItemRepository) FindByID(ctx context.Context, id int64) (menu.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return menu.Item{}, menu.ErrItemNotFound
	}
	return item, nil
}

func (r *ItemRepository) FindAll(ctx context.Context) ([]menu.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]menu.Item, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sortItems(out)
	return out, nil
}

func (r *ItemRepository) FindByCuisineAndCategories(ctx context.Context, cuisine string, categories []string) ([]menu.Item, error) {
	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []menu.Item
	for _, item := range r.items {
		if item.Cuisine == cuisine && wanted[item.Category] {
			out = append(out, item)
		}
	}
	sortItems(out)
	return out, nil
}

func (r *ItemRepository) Cuisines(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, item := range r.items {
		if !seen[item.Cuisine] {
			seen[item.Cuisine] = true
			out = append(out, item.Cuisine)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *ItemRepository) Categories(ctx context.Context, cuisine string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, item := range r.items {
		if item.Cuisine == cuisine && !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func sortItems(items []menu.Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}

// RatingRepository is an in-memory ratings store with upsert semantics.
type RatingRepository struct {
	mu      sync.RWMutex
	ratings map[ratingKey]menu.Rating
	order   []ratingKey
}

type ratingKey struct {
	userID uuid.UUID
	itemID int64
}

// NewRatingRepository creates an empty rating repository.
func NewRatingRepository() *RatingRepository {
	return &RatingRepository{ratings: make(map[ratingKey]menu.Rating)}
}

var _ outbound.RatingRepository = (*RatingRepository)(nil)

func (r *RatingRepository) Save(ctx context.Context, rating menu.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := ratingKey{rating.UserID, rating.ItemID}
	if _, exists := r.ratings[key]; !exists {
		r.order = append(r.order, key)
	}
	r.ratings[key] = rating
	return nil
}

func (r *RatingRepository) FindAll(ctx context.Context) ([]menu.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]menu.Rating, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.ratings[key])
	}
	return out, nil
}

// FindByUser returns the user's ratings most recent first, matching the
// postgres adapter. Reverse insertion order breaks timestamp ties.
func (r *RatingRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]menu.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []menu.Rating
	for i := len(r.order) - 1; i >= 0; i-- {
		if key := r.order[i]; key.userID == userID {
			out = append(out, r.ratings[key])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// UserRepository is an in-memory user store.
type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]menu.User
}

// NewUserRepository creates a user repository seeded with the given
// users.
func NewUserRepository(users ...menu.User) *UserRepository {
	r := &UserRepository{users: make(map[uuid.UUID]menu.User, len(users))}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

var _ outbound.UserRepository = (*UserRepository)(nil)

// Add inserts or replaces a user.
func (r *UserRepository) Add(user menu.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (menu.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return menu.User{}, menu.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[id]
	return ok, nil
}
