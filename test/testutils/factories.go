// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/savoria/engine/internal/domain/menu"
)

// MenuFactory provides methods to create test catalog data
type MenuFactory struct {
	faker  *gofakeit.Faker
	nextID int64
}

// NewMenuFactory creates a new menu factory with seeded faker
func NewMenuFactory(seed int64) *MenuFactory {
	return &MenuFactory{
		faker:  gofakeit.New(seed),
		nextID: 1,
	}
}

// Item creates a menu item with the given cuisine and category and
// randomized remaining fields. IDs are assigned sequentially so tests
// stay deterministic.
func (f *MenuFactory) Item(cuisine, category string) menu.Item {
	id := f.nextID
	f.nextID++
	return menu.Item{
		ID:          id,
		Name:        f.faker.Dinner(),
		Description: f.faker.Sentence(6),
		Price:       float64(f.faker.IntRange(500, 5000)) / 100,
		Cuisine:     cuisine,
		Category:    category,
		Availability: menu.Availability{
			Morning:   true,
			Afternoon: true,
			Evening:   true,
			Sunny:     true,
			Rainy:     true,
		},
	}
}

// NamedItem creates an item with an explicit name and price, for tests
// that exercise base-name grouping or budget arithmetic.
func (f *MenuFactory) NamedItem(name, cuisine, category string, price float64) menu.Item {
	item := f.Item(cuisine, category)
	item.Name = name
	item.Price = price
	return item
}

// User creates a user with randomized identity fields.
func (f *MenuFactory) User() menu.User {
	return menu.User{
		ID:        uuid.New(),
		Name:      f.faker.Name(),
		Email:     f.faker.Email(),
		CreatedAt: time.Now(),
	}
}

// Rating creates a valid rating for the given user and item.
func (f *MenuFactory) Rating(userID uuid.UUID, itemID int64, value float64) menu.Rating {
	return menu.Rating{
		UserID:    userID,
		ItemID:    itemID,
		Value:     value,
		CreatedAt: time.Now(),
	}
}
