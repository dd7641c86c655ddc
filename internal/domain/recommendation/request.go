package recommendation

import (
	"github.com/google/uuid"
	"github.com/savoria/engine/internal/domain/menu"
)

// Request carries the caller's preferences for one recommendation run.
// CategoryPriority defaults to the order of Categories when absent; the
// engine never infers one from the other beyond that.
type Request struct {
	UserID              uuid.UUID      `json:"user_id" validate:"required"`
	Budget              float64        `json:"budget" validate:"gt=0"`
	Cuisine             string         `json:"cuisine" validate:"required"`
	Categories          []string       `json:"categories" validate:"min=1"`
	CategoryPriority    []string       `json:"category_priority"`
	RequireEachCategory bool           `json:"require_each_category"`
	TimeOfDay           menu.TimeOfDay `json:"time_of_day" validate:"required"`
	Weather             menu.Weather   `json:"weather" validate:"required"`
}

// Normalize fills documented defaults: the priority order defaults to the
// category order, and unknown categories in the priority list are dropped.
func (r *Request) Normalize() {
	if len(r.CategoryPriority) == 0 {
		r.CategoryPriority = append([]string(nil), r.Categories...)
		return
	}

	requested := make(map[string]bool, len(r.Categories))
	for _, c := range r.Categories {
		requested[c] = true
	}

	priority := r.CategoryPriority[:0]
	seen := make(map[string]bool, len(r.CategoryPriority))
	for _, c := range r.CategoryPriority {
		if requested[c] && !seen[c] {
			priority = append(priority, c)
			seen[c] = true
		}
	}
	// Categories missing from the priority list rank after it, in
	// request order.
	for _, c := range r.Categories {
		if !seen[c] {
			priority = append(priority, c)
			seen[c] = true
		}
	}
	r.CategoryPriority = priority
}

// Validate checks the request against the engine's error taxonomy.
func (r *Request) Validate() error {
	if r.Budget <= 0 {
		return ErrInvalidBudget
	}
	if len(r.Categories) == 0 {
		return ErrNoCategorySelected
	}
	if !r.TimeOfDay.Valid() {
		return ErrInvalidTimeOfDay
	}
	if !r.Weather.Valid() {
		return ErrInvalidWeather
	}
	return nil
}
