package recommend

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savoria/engine/internal/domain/menu"
)

func testItem(id int64, name string, price float64) menu.Item {
	return menu.Item{
		ID:       id,
		Name:     name,
		Price:    price,
		Cuisine:  "Chinese",
		Category: "Main",
		Availability: menu.Availability{
			Morning: true, Afternoon: true, Evening: true,
			Sunny: true, Rainy: true,
		},
	}
}

func TestContextWeightsDeltas(t *testing.T) {
	w := DefaultContextWeights()
	item := testItem(1, "Fried Rice", 10)

	t.Run("both match", func(t *testing.T) {
		td, wd := w.Deltas(item, menu.Evening, menu.Sunny)
		assert.Equal(t, 0.5, td)
		assert.Equal(t, 0.5, wd)
		assert.Equal(t, 1.0, w.Score(item, menu.Evening, menu.Sunny))
	})

	t.Run("partial match", func(t *testing.T) {
		it := item
		it.Availability.Rainy = false
		td, wd := w.Deltas(it, menu.Evening, menu.Rainy)
		assert.Equal(t, 0.5, td)
		assert.Equal(t, 0.0, wd)
	})

	t.Run("no match", func(t *testing.T) {
		it := item
		it.Availability = menu.Availability{}
		assert.Equal(t, 0.0, w.Score(it, menu.Morning, menu.Sunny))
	})
}

func TestScoreCandidateAdditive(t *testing.T) {
	alice := uuid.New()
	m, err := BuildModel([]menu.Rating{
		rating(alice, 1, 4),
		rating(alice, 2, 2),
	})
	require.NoError(t, err)

	item := testItem(1, "Fried Rice", 12.50)
	c := ScoreCandidate(m, DefaultWeights(), alice, item, menu.Evening, menu.Sunny)

	assert.InDelta(t, c.BaseValue+c.HistoryDelta+c.TimeDelta+c.WeatherDelta+c.PriceDelta, c.Score, 1e-9)
	assert.InDelta(t, 0.02*12.50, c.PriceDelta, 1e-9)
	assert.Equal(t, "Fried Rice", c.Group)
	assert.Equal(t, "fried_rice", c.Family)
	assert.True(t, c.TimeMatch)
	assert.True(t, c.WeatherMatch)
}

func TestScoreCandidateColdStartHistoryIsZero(t *testing.T) {
	alice := uuid.New()
	m, err := BuildModel([]menu.Rating{rating(alice, 1, 4)})
	require.NoError(t, err)

	stranger := uuid.New()
	c := ScoreCandidate(m, DefaultWeights(), stranger, testItem(1, "Fried Rice", 10), menu.Evening, menu.Sunny)

	// An unknown user's prediction is the item's population mean, so the
	// personal-history contribution is exactly zero.
	assert.Equal(t, 0.0, c.HistoryDelta)
	assert.InDelta(t, 4.0, c.BaseValue, 1e-9)
}

func TestScoreCandidateNilModel(t *testing.T) {
	c := ScoreCandidate(nil, DefaultWeights(), uuid.New(), testItem(1, "Fried Rice", 10), menu.Evening, menu.Sunny)

	assert.Equal(t, neutralRating, c.PredictedRating)
	assert.Equal(t, neutralRating, c.BaseValue)
	assert.Equal(t, 0.0, c.HistoryDelta)
}

func TestScoreCandidateDeterministic(t *testing.T) {
	alice := uuid.New()
	m, err := BuildModel([]menu.Rating{rating(alice, 1, 4)})
	require.NoError(t, err)

	item := testItem(1, "Fried Rice", 10)
	a := ScoreCandidate(m, DefaultWeights(), alice, item, menu.Evening, menu.Sunny)
	b := ScoreCandidate(m, DefaultWeights(), alice, item, menu.Evening, menu.Sunny)
	assert.Equal(t, a, b)
}

func TestScoreCandidateMonotonicInContext(t *testing.T) {
	item := testItem(1, "Fried Rice", 10)
	matched := ScoreCandidate(nil, DefaultWeights(), uuid.New(), item, menu.Evening, menu.Sunny)

	off := item
	off.Availability.Evening = false
	unmatched := ScoreCandidate(nil, DefaultWeights(), uuid.New(), off, menu.Evening, menu.Sunny)

	assert.Greater(t, matched.Score, unmatched.Score)
}
