package recommendation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/savoria/engine/internal/domain/menu"
)

func validRequest() Request {
	return Request{
		UserID:     uuid.New(),
		Budget:     50,
		Cuisine:    "Chinese",
		Categories: []string{"Main", "Soup"},
		TimeOfDay:  menu.Evening,
		Weather:    menu.Sunny,
	}
}

func TestRequestNormalize(t *testing.T) {
	t.Run("priority defaults to category order", func(t *testing.T) {
		req := validRequest()
		req.Normalize()
		assert.Equal(t, []string{"Main", "Soup"}, req.CategoryPriority)
	})

	t.Run("unknown priority entries dropped", func(t *testing.T) {
		req := validRequest()
		req.CategoryPriority = []string{"Dessert", "Soup"}
		req.Normalize()
		assert.Equal(t, []string{"Soup", "Main"}, req.CategoryPriority)
	})

	t.Run("missing categories appended in request order", func(t *testing.T) {
		req := validRequest()
		req.Categories = []string{"Main", "Soup", "Drink"}
		req.CategoryPriority = []string{"Soup"}
		req.Normalize()
		assert.Equal(t, []string{"Soup", "Main", "Drink"}, req.CategoryPriority)
	})

	t.Run("duplicates collapsed", func(t *testing.T) {
		req := validRequest()
		req.CategoryPriority = []string{"Main", "Main", "Soup"}
		req.Normalize()
		assert.Equal(t, []string{"Main", "Soup"}, req.CategoryPriority)
	})
}

func TestRequestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := validRequest()
		assert.NoError(t, req.Validate())
	})

	t.Run("zero budget", func(t *testing.T) {
		req := validRequest()
		req.Budget = 0
		assert.ErrorIs(t, req.Validate(), ErrInvalidBudget)
	})

	t.Run("negative budget", func(t *testing.T) {
		req := validRequest()
		req.Budget = -10
		assert.ErrorIs(t, req.Validate(), ErrInvalidBudget)
	})

	t.Run("no categories", func(t *testing.T) {
		req := validRequest()
		req.Categories = nil
		assert.ErrorIs(t, req.Validate(), ErrNoCategorySelected)
	})

	t.Run("bad time of day", func(t *testing.T) {
		req := validRequest()
		req.TimeOfDay = "midnight"
		assert.ErrorIs(t, req.Validate(), ErrInvalidTimeOfDay)
	})

	t.Run("bad weather", func(t *testing.T) {
		req := validRequest()
		req.Weather = "hail"
		assert.ErrorIs(t, req.Validate(), ErrInvalidWeather)
	})
}

func TestExplanationReconstructs(t *testing.T) {
	e := Explanation{
		Base: 3.8,
		Contributions: map[string]float64{
			TermUserHistory: 0.4,
			TermTimeOfDay:   0.5,
			TermWeather:     0,
			TermPrice:       0.24,
		},
		Score: 4.94,
	}
	assert.True(t, e.Reconstructs())

	e.Score += 1e-3
	assert.False(t, e.Reconstructs())
}
